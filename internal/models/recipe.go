package models

// Recipe is a written recipe: free-text ingredients and instructions plus
// timing metadata. Dishes and cook sessions may reference it; those
// references are nullified when the recipe is deleted.
type Recipe struct {
	Model
	Title        string `gorm:"size:200;not null;index" json:"title"`
	Description  string `gorm:"type:text" json:"description"`
	Author       string `gorm:"size:200" json:"author"`
	Ingredients  string `gorm:"type:text" json:"ingredients"`
	Instructions string `gorm:"type:text" json:"instructions"`
	YieldText    string `gorm:"size:100" json:"yield_text"`
	PrepMinutes  *int   `json:"prep_minutes"`
	CookMinutes  *int   `json:"cook_minutes"`
	IsFavorite   bool   `gorm:"default:false" json:"is_favorite"`
	IsActive     bool   `gorm:"default:true" json:"is_active"`
}
