package models

// Question is the database row for one catalog question.
type Question struct {
	ID               string `db:"id"`
	Level            string `db:"level"`
	Topic            string `db:"topic"`
	Prompt           string `db:"prompt"`
	Translation      string `db:"translation"`
	OptionA          string `db:"option_a"`
	OptionB          string `db:"option_b"`
	OptionC          string `db:"option_c"`
	OptionD          string `db:"option_d"`
	CorrectOption    string `db:"correct_option"`
	Explanation      string `db:"explanation"`
	Hint             string `db:"hint"`
	AlternateAnswers string `db:"alternate_answers"`
	ResourceLink     string `db:"resource_link"`
}
