package metadata

// Field catalog passed to exiftool. Names follow exiftool's tag grammar,
// optionally prefixed with a group ("XMP-iptcCore:").

const dateField = "Time:all"

var titleFields = []string{
	"Title",
	"ImageDescription",
	"Description",
	"ObjectName",
}

// Caption, subtitle and URL fields that could show a stale description.
var captionClearFields = []string{
	"By-line",
	"Caption-Abstract",
	"Subtitle",
	"XPComment",
	"URL",
}

// Ratings set by Windows Explorer and others.
var ratingClearFields = []string{
	"Rating",
	"RatingPercent",
	"SharedUserRating",
}

var authorFields = []string{
	"Author",
	"XPAuthor",
	"Creator",
	"Artist",
}

const copyrightField = "Copyright"

var rightsClearFields = []string{
	"CopyrightNotice",
	"Rights",
	"UsageTerms",
	"WebStatement",
	"Marked",
}

const rawFileNameField = "RawFileName"

// Provenance and editing history left behind by previous editors.
var provenanceClearFields = []string{
	"XMP-iptcCore:CountryCode",
	"XMP-iptcCore:CreatorContactInfo",
	"XMP-iptcCore:CreatorCity",
	"XMP-iptcCore:CreatorCountry",
	"XMP-iptcCore:CreatorAddress",
	"XMP-iptcCore:CreatorPostalCode",
	"XMP-iptcCore:CreatorRegion",
	"XMP-iptcCore:CreatorWorkEmail",
	"XMP-iptcCore:CreatorWorkTelephone",
	"XMP-iptcCore:CreatorWorkURL",

	"XMP-photoshop:TextLayerName",
	"XMP-photoshop:TextLayerText",

	"DerivedFromDocumentID",
	"DerivedFromOriginalDocumentID",
	"OriginalDocumentID",
	"DocumentID",
	"Software",
	"HistoryAction",
	"HistoryChanged",
	"HistoryInstanceID",
	"HistoryParameters",
	"HistorySoftwareAgent",
	"HistoryWhen",
	"InstanceID",
}

// tagField is one of the list-valued tag fields; Hierarchical selects the
// pipe-delimited rendering instead of the slash-delimited one.
type tagField struct {
	Name         string
	Hierarchical bool
}

var tagFields = []tagField{
	{Name: "XMP:HierarchicalSubject", Hierarchical: true},
	{Name: "XMP:Subject"},
	{Name: "IPTC:Keywords"},
	{Name: "Microsoft:Category"},
}

// Geotag catalog.

var gpsLatitudeFields = []string{
	"composite:gpslatitude",
	"xmp:gpslatitude",
}

var gpsLongitudeFields = []string{
	"composite:gpslongitude",
	"xmp:gpslongitude",
}

var gpsZeroFields = []string{
	"GPSAltitude",
	"GPSAltitudeRef",
}

// Video containers store the position as a "lat, lon, alt" triple.
var gpsCoordinateTripleFields = []string{
	"Keys:GPSCoordinates",
	"Userdata:GPSCoordinates",
	"Itemlist:GPSCoordinates",
}

type placeField struct {
	Name string
	Part placePart
}

type placePart int

const (
	partCity placePart = iota
	partState
	partCountry
	partCountryCode
	partLatitude
	partLongitude
	partZero
	partLocationName
)

var placeFields = []placeField{
	{"XMP:City", partCity},
	{"XMP:State", partState},
	{"XMP:CountryCode", partCountryCode},
	{"XMP:Country", partCountry},
	{"XMP:CountryName", partCountry},

	{"IPTC:City", partCity},
	{"IPTC:Province-State", partState},
	{"IPTC:Country-PrimaryLocationCode", partCountryCode},
	{"IPTC:Country-PrimaryLocationName", partCountry},

	{"XMP-photoshop:City", partCity},
	{"XMP-photoshop:State", partState},
	{"XMP-photoshop:Country", partCountry},

	{"XMP-iptcExt:LocationShownCity", partCity},
	{"XMP-iptcExt:LocationShownProvinceState", partState},
	{"XMP-iptcExt:LocationShownCountryCode", partCountryCode},
	{"XMP-iptcExt:LocationShownCountryName", partCountry},
	{"XMP-iptcExt:LocationShownGPSLatitude", partLatitude},
	{"XMP-iptcExt:LocationShownGPSLongitude", partLongitude},
	{"XMP-iptcExt:LocationShownGPSAltitude", partZero},
	{"XMP-iptcExt:LocationShownGPSAltitudeRef", partZero},
	{"XMP-iptcExt:LocationShownLocationName", partLocationName},

	{"Keys:LocationName", partLocationName},
}

// Direction, speed and datum recorded by a device would contradict a manually
// chosen position.
var gpsClearFields = []string{
	"GPSMapDatum",
	"GPSImgDirection",
	"GPSImgDirectionRef",
	"GPSSpeed",
	"GPSSpeedRef",
}

// GPSProbeFields are queried to detect an existing position.
var GPSProbeFields = []string{"GPSLatitude", "GPSLongitude"}

// IsGPSField reports whether field belongs to the geotag catalog.
func IsGPSField(field string) bool {
	for _, list := range [][]string{gpsLatitudeFields, gpsLongitudeFields, gpsZeroFields, gpsCoordinateTripleFields, gpsClearFields} {
		for _, f := range list {
			if f == field {
				return true
			}
		}
	}
	for _, f := range placeFields {
		if f.Name == field {
			return true
		}
	}
	return false
}
