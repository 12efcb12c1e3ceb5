package model

// ProjectOwned is implemented by every entity that belongs to a project,
// directly or through its parent chain. The ownership guard resolves access
// through this single capability instead of branching on entity type.
type ProjectOwned interface {
	OwningProjectID() uint
}
