package advisor

import (
	"strings"

	"github.com/alexanderramin/arecabot/internal/knowledge"
)

// DiseaseProtocol returns the treatment protocol for a canonical disease key,
// or the generic low-urgency protocol when the key is unknown.
func DiseaseProtocol(kb *knowledge.Base, key string) knowledge.Protocol {
	if d, ok := kb.Disease(key); ok {
		return d.Protocol
	}
	return kb.FallbackProtocol()
}

// Label is an image-classifier label resolved against the knowledge base.
type Label struct {
	Raw     string
	Key     string // canonical disease key, empty for healthy tissue
	Healthy bool
	Part    string // plant part for healthy labels: leaf, foot, trunk, nut
}

// NormalizeLabel maps a classifier label such as "Stem_bleeding",
// "yellow leaf disease" or "Healthy_Nut" onto a disease key or a healthy
// marker. Unrecognised labels come back with Key set to the normalised form.
func NormalizeLabel(raw string) Label {
	norm := strings.ToLower(strings.TrimSpace(raw))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)
	for strings.Contains(norm, "__") {
		norm = strings.ReplaceAll(norm, "__", "_")
	}

	if part, ok := strings.CutPrefix(norm, "healthy"); ok {
		return Label{Raw: raw, Healthy: true, Part: strings.TrimPrefix(part, "_")}
	}
	return Label{Raw: raw, Key: norm}
}

// Diagnosis is the protocol lookup for a classifier label.
type Diagnosis struct {
	Label    Label
	Disease  knowledge.Disease
	Known    bool
	Protocol knowledge.Protocol
}

// Diagnose resolves a classifier label to its disease record and protocol.
// Healthy labels and unknown diseases are not errors; Known reports whether
// a disease record was found.
func Diagnose(kb *knowledge.Base, label string) Diagnosis {
	l := NormalizeLabel(label)
	if l.Healthy {
		return Diagnosis{Label: l}
	}
	d, ok := kb.Disease(l.Key)
	return Diagnosis{
		Label:    l,
		Disease:  d,
		Known:    ok,
		Protocol: DiseaseProtocol(kb, l.Key),
	}
}
