package models

// EquipmentCategory groups equipment by kind (computers, vehicles, ...)
type EquipmentCategory struct {
	BaseModel
	Name  string `json:"name" gorm:"size:100;not null;uniqueIndex" validate:"required,min=1,max=100"`
	Color int    `json:"color" gorm:"not null;default:0" validate:"min=0,max=11"`
	Note  string `json:"note" gorm:"type:text"`
}

// TableName returns the table name for EquipmentCategory
func (EquipmentCategory) TableName() string {
	return "equipment_categories"
}
