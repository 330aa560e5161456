package domain

// Level is a CEFR proficiency level. LevelA0 marks an account with no
// answer history yet and never appears on a question.
type Level string

const (
	LevelA0 Level = "A0"
	LevelA1 Level = "A1"
	LevelA2 Level = "A2"
	LevelB1 Level = "B1"
	LevelB2 Level = "B2"
	LevelC1 Level = "C1"
)

// ContentLevels lists the levels questions can carry, lowest first.
var ContentLevels = []Level{LevelA1, LevelA2, LevelB1, LevelB2, LevelC1}

var levelRank = map[Level]int{
	LevelA0: 0,
	LevelA1: 1,
	LevelA2: 2,
	LevelB1: 3,
	LevelB2: 4,
	LevelC1: 5,
}

// ParseLevel converts a raw string into a Level.
func ParseLevel(raw string) (Level, error) {
	level := Level(raw)
	if _, ok := levelRank[level]; !ok {
		return "", NewInvalidLevelError(raw)
	}
	return level, nil
}

// Rank returns the ordinal position of the level, LevelA0 being 0.
// Unknown levels rank below LevelA0.
func (l Level) Rank() int {
	rank, ok := levelRank[l]
	if !ok {
		return -1
	}
	return rank
}

// Valid reports whether the level is one of the known CEFR levels.
func (l Level) Valid() bool {
	_, ok := levelRank[l]
	return ok
}

// Next returns the level one step up. LevelC1 is the ceiling and
// returns itself.
func (l Level) Next() Level {
	switch l {
	case LevelA0:
		return LevelA1
	case LevelA1:
		return LevelA2
	case LevelA2:
		return LevelB1
	case LevelB1:
		return LevelB2
	case LevelB2:
		return LevelC1
	default:
		return LevelC1
	}
}
