package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

// NewID returns a fresh 24-char hex id. All backends share the document-store id format.
func NewID() string { return primitive.NewObjectID().Hex() }

// IsValidID reports whether s is a well-formed id.
func IsValidID(s string) bool {
	_, err := primitive.ObjectIDFromHex(s)
	return err == nil
}
