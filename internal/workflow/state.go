package workflow

// State is the step a session has reached in the current run.
type State int

const (
	Idle State = iota
	FileSelected
	Extracting
	Extracted
	DomainSelected
	RoleSelected
	Submitting
	Scored
	Error
)

var stateNames = map[State]string{
	Idle:           "Idle",
	FileSelected:   "FileSelected",
	Extracting:     "Extracting",
	Extracted:      "Extracted",
	DomainSelected: "DomainSelected",
	RoleSelected:   "RoleSelected",
	Submitting:     "Submitting",
	Scored:         "Scored",
	Error:          "Error",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "Unknown"
}

// IsTerminal reports whether the run is over. Only Reset leaves a terminal state.
func (s State) IsTerminal() bool {
	return s == Scored || s == Error
}

// IsBusy reports whether a client call is in flight.
func (s State) IsBusy() bool {
	return s == Extracting || s == Submitting
}

// Path selects which service scores the resume.
type Path string

const (
	PathPrediction Path = "prediction"
	PathAnalysis   Path = "analysis"
)

func (p Path) Valid() bool {
	return p == PathPrediction || p == PathAnalysis
}

// allowedFrom lists the states each operation may be issued from.
var allowedFrom = map[string][]State{
	opSelectFile:        {Idle, FileSelected},
	opStartExtraction:   {FileSelected},
	opSelectDomain:      {Extracted, DomainSelected, RoleSelected},
	opSelectRole:        {DomainSelected, RoleSelected},
	opSetJobDescription: {Extracted, DomainSelected, RoleSelected},
	opSubmit:            {RoleSelected},
}

const (
	opSelectFile        = "selectFile"
	opStartExtraction   = "startExtraction"
	opSelectDomain      = "selectDomain"
	opSelectRole        = "selectRole"
	opSetJobDescription = "setJobDescription"
	opSubmit            = "submit"
	opReset             = "reset"
)

func allowed(op string, s State) bool {
	for _, from := range allowedFrom[op] {
		if from == s {
			return true
		}
	}
	return false
}
