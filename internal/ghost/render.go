package ghost

import (
	"bytes"
	"html/template"

	"triply/internal/cover"
	"triply/internal/itinerary"
)

var tripTmpl = template.Must(template.New("trip").Funcs(template.FuncMap{
	"date":   itinerary.FormatDate,
	"clock":  itinerary.FormatClock,
	"maps":   itinerary.MapsURL,
	"rating": itinerary.RatingLabel,
}).Parse(`{{- $dest := .Destination -}}
{{- if .Cover}}<figure><img src="{{.Cover}}" alt="{{$dest}}"></figure>{{end}}
{{- range .Days}}
<h2>Day {{.Plan.Day}}: {{date .Plan.Date}}</h2>
{{- range .Sections}}
<h3>{{.Title}}</h3>
<ul>
{{- range .Entries}}
<li>{{if .Start}}<strong>{{.Start}}</strong> {{end}}<a href="{{maps .Name $dest}}">{{.Name}}</a>{{if .Checked}} ✓{{end}}
{{- with .Description}}<br>{{.}}{{end}}
{{- with rating .Rating}}<br><em>{{.}}</em>{{end}}
{{- with .Duration}} · {{.}}{{end}}</li>
{{- end}}
</ul>
{{- end}}
{{- end}}
`))

type entry struct {
	Start       string
	Name        string
	Description string
	Duration    string
	Rating      string
	Checked     bool
}

type section struct {
	Title   string
	Entries []entry
}

type day struct {
	Plan     itinerary.DayPlan
	Sections []section
}

// RenderTripHTML renders an itinerary as post HTML. coverURL may be empty.
func RenderTripHTML(destination, coverURL string, it itinerary.Itinerary, checked itinerary.CheckedSet) (string, error) {
	data := struct {
		Destination string
		Cover       string
		Days        []day
	}{Destination: destination, Cover: coverURL}

	for i := range it {
		plan := it[i]
		starts := itinerary.StartTimes(i, plan)
		d := day{Plan: plan}
		for _, c := range itinerary.Categories {
			items := plan.Items(i, c)
			if len(items) == 0 {
				continue
			}
			s := section{Title: c.Title()}
			for _, item := range items {
				e := entry{
					Name:        item.Name,
					Description: item.Description,
					Duration:    item.Duration,
					Rating:      item.Rating,
					Checked:     checked.Has(item.Address),
				}
				if start, ok := starts[item.Address]; ok {
					e.Start = itinerary.FormatClock(start)
				}
				s.Entries = append(s.Entries, e)
			}
			d.Sections = append(d.Sections, s)
		}
		data.Days = append(data.Days, d)
	}

	var buf bytes.Buffer
	if err := tripTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// TripDraft renders a trip into a post titled after the destination and
// tagged with its primary place.
func TripDraft(destination, coverURL string, it itinerary.Itinerary, checked itinerary.CheckedSet, publish bool) (Draft, error) {
	html, err := RenderTripHTML(destination, coverURL, it, checked)
	if err != nil {
		return Draft{}, err
	}
	tags := []string{"Travel"}
	if place := cover.PrimaryPlace(destination); place != "" {
		tags = append(tags, place)
	}
	return Draft{
		Title:        "Trip to " + destination,
		HTML:         html,
		FeatureImage: coverURL,
		Tags:         tags,
		Publish:      publish,
	}, nil
}
