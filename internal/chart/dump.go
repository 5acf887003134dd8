package chart

import (
	"chronoline/internal/chrono"
	"chronoline/internal/item"
	"chronoline/internal/layout"
)

// PlacedDump is one placed item in a layout dump.
type PlacedDump struct {
	ID     string  `yaml:"id" json:"id"`
	Name   string  `yaml:"name" json:"name"`
	Kind   string  `yaml:"kind" json:"kind"`
	Start  int     `yaml:"start" json:"start"`
	End    int     `yaml:"end" json:"end"`
	Label  string  `yaml:"label" json:"label"`
	Above  bool    `yaml:"above" json:"above"`
	Row    int     `yaml:"row" json:"row"`
	Y      float64 `yaml:"y" json:"y"`
	Height float64 `yaml:"height" json:"height"`
}

// SectionDump is one kind's band on one side of the axis.
type SectionDump struct {
	Kind   string  `yaml:"kind" json:"kind"`
	Above  bool    `yaml:"above" json:"above"`
	Top    float64 `yaml:"top" json:"top"`
	Height float64 `yaml:"height" json:"height"`
	Rows   int     `yaml:"rows" json:"rows"`
}

// LayoutDump is the serialisable form of a layout.
type LayoutDump struct {
	YearsPerPixel float64       `yaml:"years_per_pixel" json:"years_per_pixel"`
	AxisY         float64       `yaml:"axis_y" json:"axis_y"`
	AxisHeight    float64       `yaml:"axis_height" json:"axis_height"`
	AboveHeight   float64       `yaml:"above_height" json:"above_height"`
	BelowHeight   float64       `yaml:"below_height" json:"below_height"`
	TotalHeight   float64       `yaml:"total_height" json:"total_height"`
	Skipped       int           `yaml:"skipped" json:"skipped"`
	Sections      []SectionDump `yaml:"sections" json:"sections"`
	Items         []PlacedDump  `yaml:"items" json:"items"`
}

// Dump flattens l, listing items by kind and then in placement order.
func Dump(l *layout.Layout, era chrono.Era) LayoutDump {
	d := LayoutDump{
		YearsPerPixel: l.YearsPerPixel,
		AxisY:         l.AxisY,
		AxisHeight:    l.AxisHeight,
		AboveHeight:   l.AboveHeight,
		BelowHeight:   l.BelowHeight,
		TotalHeight:   l.TotalHeight,
		Skipped:       l.Skipped,
	}
	for _, s := range l.Sections {
		d.Sections = append(d.Sections, SectionDump{
			Kind: s.Kind.String(), Above: s.Above, Top: s.Top, Height: s.Height, Rows: s.Rows,
		})
	}
	for _, k := range item.Kinds {
		for _, p := range l.Of(k) {
			d.Items = append(d.Items, PlacedDump{
				ID:     p.ID,
				Name:   p.Name,
				Kind:   k.String(),
				Start:  p.Start,
				End:    p.End,
				Label:  chrono.FormatRange(p.StartDate, p.EndDate, era),
				Above:  p.Above,
				Row:    p.Row,
				Y:      p.Y,
				Height: p.Height,
			})
		}
	}
	return d
}
