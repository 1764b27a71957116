// Package style is the single source of truth for how process steps and
// transitions look. Every renderer (SVG, DOT, the JSON diagram handed to a
// browser) asks this package instead of deciding on its own.
package style

import (
	"github.com/matzehuels/stepflow/pkg/geom"
	"github.com/matzehuels/stepflow/pkg/process"
)

// Variant is the closed set of visual treatments for a step.
type Variant string

const (
	VariantTrigger  Variant = "trigger"
	VariantCritical Variant = "critical"
	VariantWarning  Variant = "warning"
	VariantActive   Variant = "active"
	VariantDefault  Variant = "default"
)

// Palette holds the concrete colours of a variant.
type Palette struct {
	Fill   string `json:"fill" bson:"fill"`
	Stroke string `json:"stroke" bson:"stroke"`
	Text   string `json:"text" bson:"text"`
}

// NodeStyle is the resolved treatment of one step.
type NodeStyle struct {
	Variant           Variant `json:"variant" bson:"variant"`
	Icon              string  `json:"icon" bson:"icon"`
	IsLightBackground bool    `json:"isLightBackground" bson:"is_light_background"`
	ClassName         string  `json:"className" bson:"class_name"`
	Palette           `bson:"inline"`
}

var palettes = map[Variant]Palette{
	VariantTrigger:  {Fill: "#4f46e5", Stroke: "#3730a3", Text: "#ffffff"},
	VariantCritical: {Fill: "#dc2626", Stroke: "#991b1b", Text: "#ffffff"},
	VariantWarning:  {Fill: "#ffffff", Stroke: "#f59e0b", Text: "#0f172a"},
	VariantActive:   {Fill: "#ffffff", Stroke: "#16a34a", Text: "#0f172a"},
	VariantDefault:  {Fill: "#ffffff", Stroke: "#cbd5e1", Text: "#0f172a"},
}

var variantIcons = map[Variant]string{
	VariantTrigger:  "zap",
	VariantCritical: "alert-octagon",
	VariantWarning:  "alert-triangle",
	VariantActive:   "activity",
}

var kindIcons = map[process.Kind]string{
	process.KindTrigger:  "zap",
	process.KindAction:   "circle",
	process.KindDecision: "git-branch",
	process.KindEnd:      "flag",
}

// ResolveVariant applies the precedence rules, highest first: gap, critical
// status, trigger kind, warning status, active or completed status, default.
func ResolveVariant(kind process.Kind, status process.Status, hasGap bool) Variant {
	switch {
	case hasGap:
		return VariantCritical
	case status == process.StatusCriticalGap:
		return VariantCritical
	case kind == process.KindTrigger:
		return VariantTrigger
	case status == process.StatusWarning:
		return VariantWarning
	case status == process.StatusActive, status == process.StatusCompleted:
		return VariantActive
	}
	return VariantDefault
}

// IsLightBackground reports whether a variant is drawn as a white card, in
// which case text must be dark.
func IsLightBackground(v Variant) bool {
	return v != VariantTrigger && v != VariantCritical
}

// Resolve returns the full treatment of a step.
func Resolve(n process.Node) NodeStyle {
	v := ResolveVariant(n.Kind, n.Status, n.HasGap())
	return NodeStyle{
		Variant:           v,
		Icon:              icon(v, n),
		IsLightBackground: IsLightBackground(v),
		ClassName:         "node--" + string(n.Kind) + " node--" + string(v),
		Palette:           PaletteFor(v),
	}
}

// PaletteFor returns the colours of a variant, falling back to the default
// variant for unknown values.
func PaletteFor(v Variant) Palette {
	if p, ok := palettes[v]; ok {
		return p
	}
	return palettes[VariantDefault]
}

func icon(v Variant, n process.Node) string {
	if v == VariantActive && n.Status == process.StatusCompleted {
		return "check-circle"
	}
	if ic, ok := variantIcons[v]; ok {
		return ic
	}
	if ic, ok := kindIcons[n.Kind]; ok {
		return ic
	}
	return "circle"
}

var kindHandles = map[process.Kind][]geom.Handle{
	process.KindTrigger:  {geom.Bottom, geom.Right},
	process.KindAction:   {geom.Top, geom.Bottom, geom.Left, geom.Right},
	process.KindDecision: {geom.Top, geom.Bottom, geom.Left, geom.Right},
	process.KindEnd:      {geom.Top, geom.Left, geom.Right},
}

// Handles returns the connector handles a step of the given kind exposes.
func Handles(k process.Kind) []geom.Handle {
	if hs, ok := kindHandles[k]; ok {
		return hs
	}
	return kindHandles[process.KindAction]
}
