package domain

// Document field names shared by the store backends.
const (
	FieldFoodName      = "foodName"
	FieldFoodOrigin    = "foodOrigin"
	FieldPrice         = "price"
	FieldOwnerEmail    = "email"
	FieldPurchaseCount = "purchase_count"
	FieldBuyerEmail    = "buyerEmail"
)

// Food is a menu item offered by a seller.
type Food struct {
	ID            string  `json:"_id,omitempty" bson:"_id,omitempty"`
	FoodName      string  `json:"foodName,omitempty" bson:"foodName,omitempty"`
	FoodImage     string  `json:"foodImage,omitempty" bson:"foodImage,omitempty"`
	FoodCategory  string  `json:"foodCategory,omitempty" bson:"foodCategory,omitempty"`
	FoodOrigin    string  `json:"foodOrigin,omitempty" bson:"foodOrigin,omitempty"`
	Description   string  `json:"description,omitempty" bson:"description,omitempty"`
	Price         float64 `json:"price,omitempty" bson:"price,omitempty"`
	Quantity      int     `json:"quantity,omitempty" bson:"quantity,omitempty"`
	OwnerName     string  `json:"name,omitempty" bson:"name,omitempty"`
	Email         string  `json:"email,omitempty" bson:"email,omitempty"`
	PurchaseCount int     `json:"purchase_count,omitempty" bson:"purchase_count,omitempty"`
}

// UpdateFields returns the subset of f a client may overwrite.
// The id and the purchase counter are owned by the server.
func (f Food) UpdateFields() Food {
	f.ID = ""
	f.PurchaseCount = 0
	return f
}
