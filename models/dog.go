package models

// Dog carries the attributes that decide whether a dog may walk in a group.
type Dog struct {
	ID                 string `bson:"id" json:"id"`
	OwnerID            string `bson:"ownerId" json:"ownerId"`
	Name               string `bson:"name" json:"name"`
	Vaccinated         bool   `bson:"vaccinated" json:"vaccinated"`
	FriendlyWithDogs   bool   `bson:"friendlyWithDogs" json:"friendlyWithDogs"`
	FriendlyWithPeople bool   `bson:"friendlyWithPeople" json:"friendlyWithPeople"`
}
