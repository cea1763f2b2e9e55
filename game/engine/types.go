package engine

import "time"

// CardSize is the fixed width and height of a bingo card.
const CardSize = 5

// FreeRow and FreeCol locate the fixed FREE cell (0-indexed).
const (
	FreeRow = 2
	FreeCol = 2
)

// MinNumber and MaxNumber bound the callable range.
const (
	MinNumber = 1
	MaxNumber = 75
)

// Cell is a single position on a bingo card. The FREE center cell has
// Free=true, Number=0 and is permanently marked.
type Cell struct {
	Number int  `json:"number"`
	Marked bool `json:"marked"`
	Free   bool `json:"free,omitempty"`
}

// BingoCard is a 5x5 grid indexed [row][col]. Column col always holds
// numbers from that column's B-I-N-G-O range.
type BingoCard [CardSize][CardSize]Cell

// GamePlayer is one joined player and the cards issued to them.
type GamePlayer struct {
	UserID string      `json:"user_id"`
	Cards  []BingoCard `json:"cards"`
}

// GameStatus is the lifecycle state of a game. It only ever advances.
type GameStatus string

const (
	StatusWaiting    GameStatus = "waiting"
	StatusInProgress GameStatus = "in_progress"
	StatusFinished   GameStatus = "finished"
)

// GameMode controls how numbers are called.
type GameMode string

const (
	ModeManual    GameMode = "manual"
	ModeAutomatic GameMode = "automatic"
)

// Pattern names a winning cell set on the card.
type Pattern string

const (
	PatternAnyLine     Pattern = "any_line"
	PatternFourCorners Pattern = "four_corners"
	PatternCross       Pattern = "cross"
	PatternLetterX     Pattern = "letter_x"
	PatternSmallSquare Pattern = "small_square"
	PatternTopRow      Pattern = "top_row"
	PatternMiddleRow   Pattern = "middle_row"
	PatternBottomRow   Pattern = "bottom_row"
	PatternLeftL       Pattern = "left_l"
	PatternRightL      Pattern = "right_l"
	PatternFullHouse   Pattern = "full_house"
)

// GameConfig holds the immutable parameters chosen by the organizer at
// creation time.
type GameConfig struct {
	Prize     int      `json:"prize"`
	CardPrice int      `json:"card_price"`
	Mode      GameMode `json:"mode"`
	Pattern   Pattern  `json:"pattern"`
}

// GameState is the full serializable state of one game. Snapshot returns a
// deep copy of it so callers can marshal or inspect without racing the
// engine.
type GameState struct {
	ID            string       `json:"id"`
	OrganizerID   string       `json:"organizer_id"`
	Prize         int          `json:"prize"`
	CardPrice     int          `json:"card_price"`
	Status        GameStatus   `json:"status"`
	Players       []GamePlayer `json:"players"`
	CalledNumbers []int        `json:"called_numbers"`
	Winners       []string     `json:"winners"`
	Pot           int          `json:"pot"`
	Mode          GameMode     `json:"mode"`
	Pattern       Pattern      `json:"pattern"`
	CreatedAt     time.Time    `json:"created_at"`
}
