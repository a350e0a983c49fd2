package theme

import (
	"fmt"
	"sort"
	"strings"
)

// Role names a semantic colour slot.
//
// Views should depend on roles rather than on literal colours so a theme
// flip restyles them without code changes.
type Role string

const (
	RoleBackground      Role = "background"
	RoleSurface         Role = "surface"
	RoleText            Role = "text"
	RoleTextMuted       Role = "text-muted"
	RoleBorder          Role = "border"
	RoleAccent          Role = "accent"
	RoleFocus           Role = "focus"
	RoleSuccess         Role = "success"
	RoleWarning         Role = "warning"
	RoleError           Role = "error"
	RoleInfo            Role = "info"
	RoleInputBackground Role = "input-background"
)

// Palette maps semantic roles to hex colour values.
type Palette map[Role]string

// Color returns the colour for role, or "" when the role is absent.
func (p Palette) Color(role Role) string {
	return p[role]
}

// Roles returns the palette's role names sorted alphabetically.
func (p Palette) Roles() []Role {
	roles := make([]Role, 0, len(p))
	for role := range p {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })
	return roles
}

// Clone returns an independent copy of p.
func (p Palette) Clone() Palette {
	if p == nil {
		return nil
	}
	out := make(Palette, len(p))
	for role, color := range p {
		out[role] = color
	}
	return out
}

// SameShape reports whether p and other expose exactly the same roles.
func (p Palette) SameShape(other Palette) bool {
	if len(p) != len(other) {
		return false
	}
	for role := range p {
		if _, ok := other[role]; !ok {
			return false
		}
	}
	return true
}

var lightPalette = Palette{
	RoleBackground:      "#FFFFFF",
	RoleSurface:         "#F6F8FA",
	RoleText:            "#1F2328",
	RoleTextMuted:       "#59636E",
	RoleBorder:          "#D1D9E0",
	RoleAccent:          "#0969DA",
	RoleFocus:           "#8250DF",
	RoleSuccess:         "#1A7F37",
	RoleWarning:         "#9A6700",
	RoleError:           "#D1242F",
	RoleInfo:            "#0550AE",
	RoleInputBackground: "#F6F8FA",
}

var darkPalette = Palette{
	RoleBackground:      "#0B0F14",
	RoleSurface:         "#121821",
	RoleText:            "#E6EDF3",
	RoleTextMuted:       "#8B9AAE",
	RoleBorder:          "#223043",
	RoleAccent:          "#5B8DEF",
	RoleFocus:           "#7AA2F7",
	RoleSuccess:         "#3FB950",
	RoleWarning:         "#D29922",
	RoleError:           "#F85149",
	RoleInfo:            "#58A6FF",
	RoleInputBackground: "#161B22",
}

// Registry holds one palette per theme.
type Registry struct {
	palettes map[Theme]Palette
}

// NewRegistry builds a registry from the given palettes. The input is copied.
func NewRegistry(palettes map[Theme]Palette) *Registry {
	copied := make(map[Theme]Palette, len(palettes))
	for t, p := range palettes {
		copied[t] = p.Clone()
	}
	return &Registry{palettes: copied}
}

var defaultRegistry = NewRegistry(map[Theme]Palette{
	Light: lightPalette,
	Dark:  darkPalette,
})

// DefaultRegistry returns the built-in light and dark palettes.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// GetPalette looks up the built-in palette for t.
func GetPalette(t Theme) (Palette, error) {
	return defaultRegistry.Palette(t)
}

// Palette returns a copy of the palette registered for t.
func (r *Registry) Palette(t Theme) (Palette, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: no palette registry", ErrConfiguration)
	}
	p, ok := r.palettes[t]
	if !ok {
		return nil, fmt.Errorf("%w: no palette registered for theme %q", ErrConfiguration, t)
	}
	return p.Clone(), nil
}

// Validate checks that every theme has a palette and that all palettes
// expose the same role set as the light palette.
func (r *Registry) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: no palette registry", ErrConfiguration)
	}
	base, ok := r.palettes[Light]
	if !ok {
		return fmt.Errorf("%w: no palette registered for theme %q", ErrConfiguration, Light)
	}
	for _, t := range Themes {
		p, ok := r.palettes[t]
		if !ok {
			return fmt.Errorf("%w: no palette registered for theme %q", ErrConfiguration, t)
		}
		if !p.SameShape(base) {
			return fmt.Errorf("%w: palette %q roles differ from %q: %s", ErrConfiguration, t, Light, describeShapeDiff(base, p))
		}
	}
	return nil
}

func describeShapeDiff(base, other Palette) string {
	var missing, extra []string
	for _, role := range base.Roles() {
		if _, ok := other[role]; !ok {
			missing = append(missing, string(role))
		}
	}
	for _, role := range other.Roles() {
		if _, ok := base[role]; !ok {
			extra = append(extra, string(role))
		}
	}
	parts := make([]string, 0, 2)
	if len(missing) > 0 {
		parts = append(parts, "missing "+strings.Join(missing, ","))
	}
	if len(extra) > 0 {
		parts = append(parts, "extra "+strings.Join(extra, ","))
	}
	return strings.Join(parts, "; ")
}
