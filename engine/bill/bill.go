package bill

// Status is the canonical lifecycle stage derived from a bill's action
// history. It is always one of the enumerated values below, never free text
// from a provider.
type Status string

const (
	StatusIntroduced        Status = "INTRODUCED"
	StatusInCommittee       Status = "IN_COMMITTEE"
	StatusReported          Status = "REPORTED"
	StatusOnFloor           Status = "ON_FLOOR"
	StatusPassedChamber     Status = "PASSED_CHAMBER"
	StatusPassedLegislature Status = "PASSED_LEGISLATURE"
	StatusEnacted           Status = "ENACTED"
	StatusVetoed            Status = "VETOED"
)

func (s Status) String() string {
	return string(s)
}

// Action is one discrete historical event in a bill's lifecycle. Dates are
// ISO calendar dates; absent fields stay zero-valued, never placeholder text.
// Actions are created once during normalization and never mutated.
type Action struct {
	Date           string
	Organization   string
	Classification []string
	Text           string
}

// Bill is the canonical representation of one legislative or regulatory item
// from one provider. UID is provider-namespaced ("source:id") and is the
// sole upsert key for the life of the item.
type Bill struct {
	UID            string
	Source         string
	Jurisdiction   string
	Session        string
	Number         string
	Title          string
	Summary        string
	Subjects       string
	SponsorPrimary string
	Committees     string
	Status         Status
	StatusSpecific string
	IntroducedDate string
	EffectiveDate  string
	LastActionDate string
	UpdatedAt      string
}

// Labels is the derived classification attached to a bill. It is a pure
// function of title+summary and is overwritten on every ingestion pass.
type Labels struct {
	BillUID     string
	Topics      []string
	Vertical    string
	ImpactScore int
}
