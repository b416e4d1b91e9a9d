package types

// Status is the generic row status for soft archival, distinct from the
// domain lifecycle statuses (service, outage, payment).
type Status string

const (
	StatusPublished Status = "published"
	StatusDeleted   Status = "deleted"
	StatusArchived  Status = "archived"
)

func (s Status) String() string {
	return string(s)
}
