package models

// TargetKind discriminates what a report is filed against.
type TargetKind string

const (
	TargetUser    TargetKind = "user"
	TargetProduct TargetKind = "product"
)

// Target is the tagged form of a report's subject: exactly one kind, one id.
// Constructing reports through a Target keeps the both-set/neither-set column
// states unrepresentable in code.
type Target struct {
	Kind TargetKind
	ID   uint
}

// UserTarget targets a user account.
func UserTarget(id uint) Target { return Target{Kind: TargetUser, ID: id} }

// ProductTarget targets a product listing.
func ProductTarget(id uint) Target { return Target{Kind: TargetProduct, ID: id} }

// Valid reports whether the target names a known kind and a nonzero id.
func (t Target) Valid() bool {
	return t.ID != 0 && (t.Kind == TargetUser || t.Kind == TargetProduct)
}

// ApplyTo sets the matching foreign-key column on a report.
func (t Target) ApplyTo(r *Report) {
	id := t.ID
	switch t.Kind {
	case TargetUser:
		r.TargetUserID = &id
	case TargetProduct:
		r.TargetProductID = &id
	}
}

// TargetOf recovers the tagged target from a stored report.
func TargetOf(r *Report) Target {
	if r.TargetUserID != nil {
		return UserTarget(*r.TargetUserID)
	}
	if r.TargetProductID != nil {
		return ProductTarget(*r.TargetProductID)
	}
	return Target{}
}
