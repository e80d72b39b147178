package model

// Team is one of the two fixed team labels
type Team string

const (
	TeamChiefs Team = "Chiefs"
	TeamEagles Team = "Eagles"
)

// Teams lists the team labels in the fixed score-feed order
var Teams = [2]Team{TeamChiefs, TeamEagles}

// Axis binds a team to the digit order along one grid dimension
type Axis struct {
	Team    Team  `json:"team"`
	Numbers []int `json:"numbers"` // Permutation of 0-9
}

// TeamAssignment holds both axes once teams and numbers are assigned
type TeamAssignment struct {
	Axis1 Axis `json:"axis1"` // Columns
	Axis2 Axis `json:"axis2"` // Rows
}

// Clone returns a deep copy of the assignment
func (t TeamAssignment) Clone() TeamAssignment {
	c := t
	c.Axis1.Numbers = append([]int(nil), t.Axis1.Numbers...)
	c.Axis2.Numbers = append([]int(nil), t.Axis2.Numbers...)
	return c
}

// Quarter identifies a scoring checkpoint
type Quarter string

const (
	Q1 Quarter = "q1"
	Q2 Quarter = "q2"
	Q3 Quarter = "q3"
	Q4 Quarter = "q4"
)

// Quarters lists all quarters in game order
var Quarters = []Quarter{Q1, Q2, Q3, Q4}

// ScorePair holds quarter-end score digits in the fixed (Chiefs, Eagles) order
type ScorePair [2]int

// For returns the score belonging to a team, and false for an unknown team
func (s ScorePair) For(team Team) (int, bool) {
	for i, t := range Teams {
		if t == team {
			return s[i], true
		}
	}
	return 0, false
}

// QuarterScore is one quarter's score pair from the external feed
type QuarterScore struct {
	Quarter Quarter
	Scores  ScorePair
}
