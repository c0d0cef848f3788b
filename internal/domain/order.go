package domain

import "time"

// Order records a purchase of a food item.
type Order struct {
	ID         string    `json:"_id,omitempty" bson:"_id,omitempty"`
	FoodID     string    `json:"foodId" bson:"foodId"`
	FoodName   string    `json:"foodName,omitempty" bson:"foodName,omitempty"`
	FoodImage  string    `json:"foodImage,omitempty" bson:"foodImage,omitempty"`
	Price      float64   `json:"price,omitempty" bson:"price,omitempty"`
	Quantity   int       `json:"quantity" bson:"quantity"`
	BuyerName  string    `json:"buyerName,omitempty" bson:"buyerName,omitempty"`
	BuyerEmail string    `json:"buyerEmail" bson:"buyerEmail"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
}
