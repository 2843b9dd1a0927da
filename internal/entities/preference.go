package entities

// DisplayPreference is a per-book key/value display setting
// (font size, theme, line spacing and the like).
type DisplayPreference struct {
	BookID int    `gorm:"column:book_id;primaryKey" json:"book_id"`
	Key    string `gorm:"column:key;primaryKey" json:"key"`
	Value  string `gorm:"column:value" json:"value"`
}

func (DisplayPreference) TableName() string { return "display_preferences" }
