package navlink

import "strings"

// LinkTarget is the link's destination derived from its attribute set.
// Raw is the href attribute text exactly as supplied; Absolute is Raw
// resolved against the application base URL. When no href attribute is
// present, HasHref is false and both strings are empty.
type LinkTarget struct {
	Raw      string
	Absolute string
	HasHref  bool
}

// AnchorIntent is the derived behavior for in-page fragment links. A raw
// href starting with "#" yields the fragment name and suppresses the
// default navigation; everything else (including a missing href) yields
// the zero value.
type AnchorIntent struct {
	TargetID       string
	PreventDefault bool
}

// ActiveState is the link's computed presentation state. IsActive always
// reflects the matcher applied to the current location and the resolved
// target; CSSClass is the composed class string handed to rendering.
type ActiveState struct {
	IsActive bool
	CSSClass string
}

// DeriveIntent computes the anchor intent from the raw href text. The
// check short-circuits when no href attribute is present.
func DeriveIntent(rawHref string, hasHref bool) AnchorIntent {
	if !hasHref || !strings.HasPrefix(rawHref, "#") {
		return AnchorIntent{}
	}
	return AnchorIntent{
		TargetID:       rawHref[1:],
		PreventDefault: true,
	}
}

// ComposeClass builds the class string from the base class and the
// active class. Inactive links keep the base class untouched; active
// links append the active class with a single separating space, or use
// it alone when there is no base class.
func ComposeClass(base, active string, isActive bool) string {
	if !isActive {
		return base
	}
	if base == "" {
		return active
	}
	return base + " " + active
}
