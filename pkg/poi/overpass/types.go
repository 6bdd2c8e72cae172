package overpass

// response is the top-level Overpass API JSON response.
type response struct {
	Elements []element `json:"elements"`
}

// element is one node or way in an Overpass response. Ways queried with
// "out center" carry their centroid in Center instead of Lat/Lon.
type element struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    float64           `json:"lat,omitempty"`
	Lon    float64           `json:"lon,omitempty"`
	Center *center           `json:"center,omitempty"`
	Tags   map[string]string `json:"tags"`
}

// center is a way's centroid.
type center struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}
