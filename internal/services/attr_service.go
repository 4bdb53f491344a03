package services

// AttrItem is the wire representation of a tag or an ingredient.
type AttrItem struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// RecipeAttrService is the owner-scoped contract shared by tags and
// ingredients. Both resources expose the same list/get/create/rename/delete
// surface, so a single handler serves either through this interface.
type RecipeAttrService interface {
	List(ownerID uint) ([]AttrItem, error)
	Get(ownerID, id uint) (*AttrItem, error)
	Create(ownerID uint, name string) (*AttrItem, error)
	Update(ownerID, id uint, name string) (*AttrItem, error)
	Delete(ownerID, id uint) error
}

// ImageStore abstracts stored recipe images. Save validates the payload,
// picks a collision-free name and returns the logical path; Delete removes a
// previously stored file.
type ImageStore interface {
	Save(originalName string, data []byte) (string, error)
	Delete(path string) error
}

// EventPublisher publishes domain events for out-of-process consumers.
type EventPublisher interface {
	PublishRecipeEvent(event string, body []byte) error
}
