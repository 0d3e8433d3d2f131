// Package voices holds the fixed synthetic voice catalog and recommendation
// logic for matching a narration prompt to suitable voices.
package voices

// Gender groups the catalog for the recommendation fallback.
type Gender string

const (
	Female Gender = "female"
	Male   Gender = "male"
)

// Voice is one prebuilt synthesis voice.
type Voice struct {
	ID     string
	Gender Gender
	Style  string
}

// Catalog is the fixed set of voices offered for speech synthesis.
// IDs must match the synthesis backend's prebuilt voice names exactly.
var Catalog = []Voice{
	{ID: "Kore", Gender: Female, Style: "calm, soothing, gentle"},
	{ID: "Puck", Gender: Male, Style: "playful, energetic, animated"},
	{ID: "Zephyr", Gender: Male, Style: "bright, youthful, fast-paced"},
	{ID: "Charon", Gender: Male, Style: "deep, trustworthy, steady"},
	{ID: "Fenrir", Gender: Male, Style: "resonant, intense, dramatic"},
}

// Lookup returns the catalog entry for an ID, or false if it is not a
// catalog voice.
func Lookup(id string) (Voice, bool) {
	for _, v := range Catalog {
		if v.ID == id {
			return v, true
		}
	}
	return Voice{}, false
}

// IDs returns all catalog voice IDs in catalog order.
func IDs() []string {
	ids := make([]string, len(Catalog))
	for i, v := range Catalog {
		ids[i] = v.ID
	}
	return ids
}
