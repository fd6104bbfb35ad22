package model

import (
	"errors"
	"fmt"
	"math"
)

// counted is implemented by sections whose list lengths are stored in
// fixed-width count fields.
type counted interface {
	checkCounts() error
}

// Validate reports every list in m that is too long for its count field.
// Encode does not check: such counts wrap and the file no longer decodes to
// m. The returned error wraps ErrCountOverflow.
func (m *Model) Validate() error {
	var errs []error
	for _, s := range m.Sections() {
		c, ok := s.(counted)
		if !ok {
			continue
		}
		if err := c.checkCounts(); err != nil {
			errs = append(errs, fmt.Errorf("model: %s: %w", s.Kind(), err))
		}
	}
	return errors.Join(errs...)
}

func checkCount(what string, n, limit int) error {
	if n > limit {
		return fmt.Errorf("%d %s, at most %d fit: %w", n, what, limit, ErrCountOverflow)
	}
	return nil
}

func (t *TextureList) checkCounts() error {
	return checkCount("textures", len(t.Textures), math.MaxUint16)
}

func (l *VertexList) checkCounts() error {
	return checkCount("vertices", len(l.Vertices), math.MaxUint16)
}

func (u *Unk14List) checkCounts() error {
	return errors.Join(
		checkCount("records", len(u.Records), math.MaxUint16),
		checkCount("0x10-byte entries", len(u.Raw10), math.MaxUint16),
		checkCount("0xC-byte entries", len(u.Raw0C), math.MaxUint16),
	)
}

func (c *CollisionList) checkCounts() error {
	return errors.Join(
		checkCount("groups", len(c.Groups), math.MaxUint16),
		checkCount("triangles", len(c.Triangles), math.MaxUint16),
	)
}

func (l *MeshList) checkCounts() error {
	errs := []error{checkCount("meshes", len(l.Meshes), math.MaxUint16)}
	for i, m := range l.Meshes {
		errs = append(errs, checkCount(fmt.Sprintf("vertices in mesh %d", i), len(m.Vertices), math.MaxUint16))
	}
	return errors.Join(errs...)
}

func (l *Unk20List) checkCounts() error {
	return checkCount("elements", len(l.Elements), math.MaxUint8)
}

func (l *Unk28List) checkCounts() error {
	errs := []error{checkCount("elements", len(l.Elements), math.MaxUint16)}
	for i, e := range l.Elements {
		errs = append(errs, checkCount(fmt.Sprintf("vertices in element %d", i), len(e.Vertices), math.MaxUint8))
	}
	return errors.Join(errs...)
}

func (l *AnimationList) checkCounts() error {
	return checkCount("bones", len(l.Bones), math.MaxUint16)
}
