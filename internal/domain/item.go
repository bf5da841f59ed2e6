package domain

// Item represents a single shopping-list entry
//
// swagger:model
type Item struct {
	// The ID of the item, assigned by the server
	//
	// required: true
	// min: 1
	// example: 1
	ID int `json:"id"`

	// What to buy
	//
	// required: true
	// example: Milk
	Description string `json:"description" validate:"notblank"`

	// Whether the item has been picked up
	//
	// required: false
	// example: false
	IsDone bool `json:"isDone"`
}

// Items is a collection of Item
type Items []*Item

// NewItem builds an item ready to be stored. The done flag always starts
// false no matter what the caller sent.
func NewItem(description string) *Item {
	return &Item{Description: description}
}
