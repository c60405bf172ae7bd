package domain

// Batch is one processing request over a selected directory.
type Batch struct {
	SelectedDirectory string
	Recursive         bool
	MoveSelected      bool
	GeotagEnabled     bool
	Geotag            *GeotagRequest
}

func (b Batch) GeotagOverride() bool {
	return b.Geotag != nil && b.Geotag.Override
}

// Geotagging reports whether a location should be written into each file.
func (b Batch) Geotagging() bool {
	return b.GeotagEnabled && b.Geotag != nil
}
