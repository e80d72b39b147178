package templates

import (
	"strconv"
	"strings"

	"github.com/mcoot/superbowl-squares/internal/model"
)

// BoardView is a board prepared for rendering to one viewer
type BoardView struct {
	ID          model.BoardID
	DisplayName string
	State       model.BoardState
	MaxSquares  int
	Claimed     int
	Viewer      string // Contestant name remembered for this board, may be empty
	Selected    int    // Squares held by Viewer

	ColumnTeam string
	RowTeam    string
	Columns    []string
	Rows       []GridRow
	Winners    []WinnerView
}

// GridRow is one rendered row of the grid
type GridRow struct {
	Header string
	Cells  []GridCell
}

// GridCell is one rendered square
type GridCell struct {
	Position  string
	Owner     string
	Mine      bool
	Clickable bool
	Quarters  []string
}

// WinnerView is one quarter's winning square
type WinnerView struct {
	Quarter  model.Quarter
	Label    string
	Position string
	Owner    string
}

// Class returns the CSS classes for the cell
func (c GridCell) Class() string {
	classes := []string{"square"}
	switch {
	case c.Mine:
		classes = append(classes, "mine")
	case c.Owner != "":
		classes = append(classes, "taken")
	}
	if c.Clickable {
		classes = append(classes, "open")
	}
	if len(c.Quarters) > 0 {
		classes = append(classes, "winner")
	}
	return strings.Join(classes, " ")
}

// IsSetup reports whether the board still needs a name and limit
func (v BoardView) IsSetup() bool {
	return v.State == model.BoardStateSetup
}

// IsChoosing reports whether squares can be claimed
func (v BoardView) IsChoosing() bool {
	return v.State == model.BoardStateChoosing
}

// CanAssign reports whether teams and numbers can be assigned now
func (v BoardView) CanAssign() bool {
	return v.IsChoosing() && v.Claimed == model.TotalSquares
}

// NewBoardView builds the view of a board for a viewer
func NewBoardView(board *model.Board, viewer string) BoardView {
	view := BoardView{
		ID:          board.ID,
		DisplayName: board.DisplayName,
		State:       board.State,
		MaxSquares:  board.MaxSquaresPerContestant,
		Claimed:     board.ClaimedCount(),
		Viewer:      viewer,
	}
	if viewer != "" {
		view.Selected = board.CountOwnedBy(viewer)
	}

	columns, rows := axisLabels(board)
	view.Columns = columns
	if board.Teams != nil {
		view.ColumnTeam = string(board.Teams.Axis1.Team)
		view.RowTeam = string(board.Teams.Axis2.Team)
	}

	canClaim := view.IsChoosing() && viewer != ""
	view.Rows = make([]GridRow, model.GridSize)
	for r := 0; r < model.GridSize; r++ {
		row := GridRow{Header: rows[r], Cells: make([]GridCell, model.GridSize)}
		for c := 0; c < model.GridSize; c++ {
			pos := model.Position{Row: r, Col: c}
			owner := board.Owner(pos)
			mine := viewer != "" && owner == viewer
			cell := GridCell{
				Position:  pos.Key(),
				Owner:     owner,
				Mine:      mine,
				Clickable: canClaim && (owner == "" || mine),
			}
			for _, q := range board.WinningQuarters(pos) {
				cell.Quarters = append(cell.Quarters, QuarterLabel(q))
			}
			row.Cells[c] = cell
		}
		view.Rows[r] = row
	}

	for _, q := range model.Quarters {
		pos, ok := board.Winners[q]
		if !ok {
			continue
		}
		view.Winners = append(view.Winners, WinnerView{
			Quarter:  q,
			Label:    QuarterLabel(q),
			Position: pos.Key(),
			Owner:    board.Owner(pos),
		})
	}

	return view
}

// QuarterLabel returns the display label for a quarter ("Q1")
func QuarterLabel(q model.Quarter) string {
	return strings.ToUpper(string(q))
}

// axisLabels returns column and row headers: digits once assigned, "?" before
func axisLabels(board *model.Board) ([]string, []string) {
	columns := make([]string, model.GridSize)
	rows := make([]string, model.GridSize)
	for i := range columns {
		columns[i] = "?"
		rows[i] = "?"
	}
	if board.Teams == nil {
		return columns, rows
	}
	for i := 0; i < model.GridSize && i < len(board.Teams.Axis1.Numbers); i++ {
		columns[i] = strconv.Itoa(board.Teams.Axis1.Numbers[i])
	}
	for i := 0; i < model.GridSize && i < len(board.Teams.Axis2.Numbers); i++ {
		rows[i] = strconv.Itoa(board.Teams.Axis2.Numbers[i])
	}
	return columns, rows
}
