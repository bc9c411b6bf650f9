package model

// ViewCount separates the manually seeded counter stored in the posts
// document from the live counter kept by the external telemetry service.
// The live part is additive and never written back into the document.
//
// The combination happens in the site's rendering layer; the mutators here
// only ever touch the seed, so nothing in this repository consumes Total
// besides the rendering contract it documents.
type ViewCount struct {
	Seed int `json:"seed"`
	Live int `json:"live"`
}

// Total combined view count shown to readers.
func (v ViewCount) Total() int {
	return v.Seed + v.Live
}
