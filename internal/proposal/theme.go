package proposal

import (
	"fmt"
	"os"
	"strconv"

	"github.com/goccy/go-yaml"
)

// Role names one of the visually distinct parts of a proposal.
type Role string

const (
	RoleHeader        Role = "header"
	RoleTitle         Role = "title"
	RoleSubtitle      Role = "subtitle"
	RoleDivider       Role = "divider"
	RoleIntro         Role = "intro"
	RoleReasonHeading Role = "reason_heading"
	RoleReasonBody    Role = "reason_body"
)

// Roles lists every role in document order.
var Roles = []Role{
	RoleHeader, RoleTitle, RoleSubtitle, RoleDivider,
	RoleIntro, RoleReasonHeading, RoleReasonBody,
}

// Alignment values map directly onto w:jc.
type Alignment string

const (
	AlignLeft    Alignment = "start"
	AlignCenter  Alignment = "center"
	AlignRight   Alignment = "end"
	AlignJustify Alignment = "both"
)

// RoleStyle is the typography for one role.
type RoleStyle struct {
	Font          string    `yaml:"font"`
	SizePt        float64   `yaml:"size_pt"`
	Bold          bool      `yaml:"bold"`
	Italic        bool      `yaml:"italic"`
	Color         string    `yaml:"color"` // RRGGBB
	Align         Alignment `yaml:"align"`
	SpaceBeforePt float64   `yaml:"space_before_pt"`
	LineSpacing   float64   `yaml:"line_spacing"` // multiple of single spacing; 0 leaves the default
	IndentLeftIn  float64   `yaml:"indent_left_in"`
}

// Page is the page geometry in inches.
type Page struct {
	WidthIn        float64 `yaml:"width_in"`
	HeightIn       float64 `yaml:"height_in"`
	MarginTopIn    float64 `yaml:"margin_top_in"`
	MarginBottomIn float64 `yaml:"margin_bottom_in"`
	MarginLeftIn   float64 `yaml:"margin_left_in"`
	MarginRightIn  float64 `yaml:"margin_right_in"`
}

// Theme carries every presentation parameter used when rendering. Build it
// once with DefaultTheme or LoadTheme and hand it to NewRenderer.
type Theme struct {
	Page          Page      `yaml:"page"`
	Header        RoleStyle `yaml:"header"`
	Title         RoleStyle `yaml:"title"`
	Subtitle      RoleStyle `yaml:"subtitle"`
	Divider       RoleStyle `yaml:"divider"`
	Intro         RoleStyle `yaml:"intro"`
	ReasonHeading RoleStyle `yaml:"reason_heading"`
	ReasonBody    RoleStyle `yaml:"reason_body"`
}

// DefaultTheme is the single-page US Letter layout.
func DefaultTheme() Theme {
	return Theme{
		Page: Page{
			WidthIn:        8.5,
			HeightIn:       11,
			MarginTopIn:    0.75,
			MarginBottomIn: 0.75,
			MarginLeftIn:   0.85,
			MarginRightIn:  0.85,
		},
		Header: RoleStyle{
			Font: "Calibri", SizePt: 8, Italic: true, Color: "808080",
			Align: AlignCenter, SpaceBeforePt: 6,
		},
		Title: RoleStyle{
			Font: "Calibri", SizePt: 20, Bold: true, Color: "000000",
			Align: AlignCenter, SpaceBeforePt: 12, LineSpacing: 1.15,
		},
		Subtitle: RoleStyle{
			Font: "Calibri", SizePt: 13, Color: "404040",
			Align: AlignCenter, SpaceBeforePt: 4, LineSpacing: 1.15,
		},
		Divider: RoleStyle{
			Font: "Calibri", SizePt: 8, Color: "808080",
			Align: AlignCenter, SpaceBeforePt: 2,
		},
		Intro: RoleStyle{
			Font: "Calibri", SizePt: 10.5, Color: "000000",
			Align: AlignJustify, SpaceBeforePt: 8, LineSpacing: 1.2, IndentLeftIn: 0.2,
		},
		ReasonHeading: RoleStyle{
			Font: "Calibri", SizePt: 12, Bold: true, Color: "000000",
			Align: AlignLeft, SpaceBeforePt: 6, LineSpacing: 1.15, IndentLeftIn: 0.15,
		},
		ReasonBody: RoleStyle{
			Font: "Calibri", SizePt: 10, Color: "000000",
			Align: AlignJustify, LineSpacing: 1.2, IndentLeftIn: 0.25,
		},
	}
}

// LoadTheme reads a YAML override file on top of DefaultTheme. An empty path
// returns the default.
func LoadTheme(path string) (Theme, error) {
	theme := DefaultTheme()
	if path == "" {
		return theme, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return theme, fmt.Errorf("read theme: %w", err)
	}
	if err := yaml.Unmarshal(data, &theme); err != nil {
		return theme, fmt.Errorf("parse theme %s: %w", path, err)
	}
	if err := theme.Validate(); err != nil {
		return theme, fmt.Errorf("theme %s: %w", path, err)
	}
	return theme, nil
}

// Style returns the style for a role.
func (t Theme) Style(r Role) RoleStyle {
	switch r {
	case RoleHeader:
		return t.Header
	case RoleTitle:
		return t.Title
	case RoleSubtitle:
		return t.Subtitle
	case RoleDivider:
		return t.Divider
	case RoleIntro:
		return t.Intro
	case RoleReasonHeading:
		return t.ReasonHeading
	case RoleReasonBody:
		return t.ReasonBody
	}
	return t.ReasonBody
}

// Validate checks that sizes and the page are usable.
func (t Theme) Validate() error {
	if t.Page.WidthIn <= 0 || t.Page.HeightIn <= 0 {
		return fmt.Errorf("page size must be positive")
	}
	if t.Page.MarginLeftIn+t.Page.MarginRightIn >= t.Page.WidthIn {
		return fmt.Errorf("horizontal margins exceed page width")
	}
	if t.Page.MarginTopIn+t.Page.MarginBottomIn >= t.Page.HeightIn {
		return fmt.Errorf("vertical margins exceed page height")
	}
	for _, r := range Roles {
		s := t.Style(r)
		if s.SizePt <= 0 {
			return fmt.Errorf("%s: size_pt must be positive", r)
		}
		if len(s.Color) != 6 {
			return fmt.Errorf("%s: color must be RRGGBB", r)
		}
		if _, err := strconv.ParseUint(s.Color, 16, 32); err != nil {
			return fmt.Errorf("%s: color must be RRGGBB", r)
		}
	}
	return nil
}

func twips(inches float64) int {
	return int(inches*1440 + 0.5)
}

func pointTwips(pt float64) int {
	return int(pt*20 + 0.5)
}

// halfPoints formats a point size as the w:sz value.
func halfPoints(pt float64) string {
	return strconv.Itoa(int(pt*2 + 0.5))
}

// lineTwips converts a spacing multiple to 240ths of a line.
func lineTwips(multiple float64) int {
	return int(multiple*240 + 0.5)
}
