package fileserver

import (
	"html/template"
	"io"
	"io/fs"
	"net/url"
	"sort"
	"strings"
)

var directoryListingTemplate = template.Must(template.New("listing").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Directory listing for {{ .Path }}</title>
</head>
<body>
<h1>Directory listing for {{ .Path }}</h1>
<hr>
<ul>
{{- range .Entries }}
<li><a href="{{ .Href }}">{{ .Name }}</a></li>
{{- end }}
</ul>
<hr>
</body>
</html>
`)) //nolint:gochecknoglobals

type listingEntry struct {
	Name string
	Href string
}

func writeDirectoryListing(w io.Writer, urlPath string, entries []fs.DirEntry) error {
	sort.Slice(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].Name()) < strings.ToLower(entries[j].Name())
	})

	list := make([]listingEntry, 0, len(entries))

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			name += "/"
		}

		// url.URL escapes "?", "#" and a leading "name:" that would look like a scheme
		href := (&url.URL{Path: name}).String()

		list = append(list, listingEntry{Name: name, Href: href})
	}

	return directoryListingTemplate.Execute(w, struct {
		Path    string
		Entries []listingEntry
	}{
		Path:    urlPath,
		Entries: list,
	})
}
