package server

import (
	"fmt"
	"net/http"
	"strings"

	"famedia/internal/metadata"
	"famedia/internal/presets"
)

// formRequest reads a start-processing call sent as an HTML form. A named
// geotag preset fills in any location field left empty.
func (s *Server) formRequest(r *http.Request) (processRequest, error) {
	if err := r.ParseForm(); err != nil {
		return processRequest{}, fmt.Errorf("invalid form: %w", err)
	}

	req := processRequest{
		SelectedMediaDirectory: strings.TrimSpace(r.PostFormValue("selected_media_directory")),
		RecursiveSearch:        checked(r, "recursive_search"),
		MoveFilesSelected:      checked(r, "move_files_selected"),
		GeotagEnabled:          checked(r, "geotag_enabled"),
		GeotagOverride:         checked(r, "geotag_override"),
	}
	if !req.GeotagEnabled {
		return req, nil
	}

	in := metadata.GeotagInput{
		Coordinates: r.PostFormValue("coordinates"),
		Location:    r.PostFormValue("location"),
		City:        r.PostFormValue("city"),
		State:       r.PostFormValue("state"),
		Country:     r.PostFormValue("country"),
	}
	if name := strings.TrimSpace(r.PostFormValue("geotag_preset")); name != "" {
		catalog, err := presets.Load(s.Config.GeotagDataFile)
		if err != nil {
			return processRequest{}, fmt.Errorf("loading geotag data: %w", err)
		}
		preset, err := catalog.Find(name)
		if err != nil {
			return processRequest{}, err
		}
		in = fillFrom(in, preset.GeotagInput)
	}
	req.GeotagData = &in
	return req, nil
}

func checked(r *http.Request, key string) bool {
	switch strings.ToLower(strings.TrimSpace(r.PostFormValue(key))) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

func fillFrom(in, preset metadata.GeotagInput) metadata.GeotagInput {
	pick := func(v, fallback string) string {
		if strings.TrimSpace(v) == "" {
			return fallback
		}
		return v
	}
	return metadata.GeotagInput{
		Coordinates: pick(in.Coordinates, preset.Coordinates),
		Location:    pick(in.Location, preset.Location),
		City:        pick(in.City, preset.City),
		State:       pick(in.State, preset.State),
		Country:     pick(in.Country, preset.Country),
	}
}
