package models

import "time"

// AreaUnit enumerates the land units farmers register farms with.
type AreaUnit string

const (
	UnitHectares AreaUnit = "hectares"
	UnitAcres    AreaUnit = "acres"
	UnitBigha    AreaUnit = "bigha"
)

// hectaresPer holds conversion factors towards hectares. Bigha varies by
// state; 0.1338 is the value the dashboard has always displayed.
var hectaresPer = map[AreaUnit]float64{
	UnitHectares: 1,
	UnitAcres:    0.404686,
	UnitBigha:    0.1338,
}

// Valid reports whether the unit is one of the supported land units.
func (u AreaUnit) Valid() bool {
	_, ok := hectaresPer[u]
	return ok
}

// ToHectares converts size expressed in u to hectares. Unknown units yield 0.
func (u AreaUnit) ToHectares(size float64) float64 {
	return size * hectaresPer[u]
}

// Farm is a field registered by a user.
type Farm struct {
	ID         string    `json:"id" bson:"_id"`
	UserID     string    `json:"userId" bson:"user_id"`
	Name       string    `json:"name" bson:"name"`
	Size       float64   `json:"size" bson:"size"`
	Unit       AreaUnit  `json:"unit" bson:"unit"`
	CropType   string    `json:"cropType" bson:"crop_type"`
	SoilType   string    `json:"soilType,omitempty" bson:"soil_type,omitempty"`
	Location   string    `json:"location,omitempty" bson:"location,omitempty"`
	Latitude   *float64  `json:"latitude,omitempty" bson:"latitude,omitempty"`
	Longitude  *float64  `json:"longitude,omitempty" bson:"longitude,omitempty"`
	SowingDate string    `json:"sowingDate,omitempty" bson:"sowing_date,omitempty"` // YYYY-MM-DD
	CreatedAt  time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" bson:"updated_at"`
}

// FarmInput carries the user-editable farm attributes for creation.
type FarmInput struct {
	Name       string   `json:"name" binding:"required"`
	Size       float64  `json:"size" binding:"required"`
	Unit       AreaUnit `json:"unit" binding:"required"`
	CropType   string   `json:"cropType" binding:"required"`
	SoilType   string   `json:"soilType"`
	Location   string   `json:"location"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
	SowingDate string   `json:"sowingDate"`
}

// FarmUpdate carries a partial update; nil fields are left untouched.
type FarmUpdate struct {
	Name       *string   `json:"name"`
	Size       *float64  `json:"size"`
	Unit       *AreaUnit `json:"unit"`
	CropType   *string   `json:"cropType"`
	SoilType   *string   `json:"soilType"`
	Location   *string   `json:"location"`
	Latitude   *float64  `json:"latitude"`
	Longitude  *float64  `json:"longitude"`
	SowingDate *string   `json:"sowingDate"`
}

// FarmStats summarizes a user's farms.
type FarmStats struct {
	TotalFarms int     `json:"totalFarms"`
	TotalSize  float64 `json:"totalSize"` // hectares
}
