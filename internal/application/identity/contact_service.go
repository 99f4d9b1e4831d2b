package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/d8nd8/python-final-diplom/internal/domain/identity"
	"github.com/d8nd8/python-final-diplom/internal/domain/shared"
)

// ErrCodeContactNotFound is returned for unknown contacts and contacts owned by someone else
const ErrCodeContactNotFound = "CONTACT_NOT_FOUND"

// ContactService manages a user's delivery contacts
type ContactService struct {
	contacts identity.ContactRepository
}

// NewContactService creates a new ContactService
func NewContactService(contacts identity.ContactRepository) *ContactService {
	return &ContactService{contacts: contacts}
}

// List returns the user's contacts
func (s *ContactService) List(ctx context.Context, userID int64) ([]ContactResponse, error) {
	contacts, err := s.contacts.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]ContactResponse, 0, len(contacts))
	for i := range contacts {
		out = append(out, ToContactResponse(&contacts[i]))
	}
	return out, nil
}

// Create adds a contact for the user
func (s *ContactService) Create(ctx context.Context, userID int64, req ContactRequest) (*ContactResponse, error) {
	contact, err := identity.NewContact(userID, req.toInput())
	if err != nil {
		return nil, err
	}
	if err := s.contacts.Create(ctx, contact); err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}
	resp := ToContactResponse(contact)
	return &resp, nil
}

// Update replaces the address of one of the user's contacts
func (s *ContactService) Update(ctx context.Context, userID, contactID int64, req ContactRequest) (*ContactResponse, error) {
	contact, err := s.find(ctx, userID, contactID)
	if err != nil {
		return nil, err
	}
	if err := contact.Update(req.toInput()); err != nil {
		return nil, err
	}
	if err := s.contacts.Update(ctx, contact); err != nil {
		return nil, fmt.Errorf("failed to update contact: %w", err)
	}
	resp := ToContactResponse(contact)
	return &resp, nil
}

// Delete removes one of the user's contacts. Orders keep their history with the contact unset.
func (s *ContactService) Delete(ctx context.Context, userID, contactID int64) error {
	contact, err := s.find(ctx, userID, contactID)
	if err != nil {
		return err
	}
	return s.contacts.Delete(ctx, contact.ID)
}

func (s *ContactService) find(ctx context.Context, userID, contactID int64) (*identity.Contact, error) {
	contact, err := s.contacts.FindByIDForUser(ctx, userID, contactID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.NewNotFoundError(ErrCodeContactNotFound, "Contact")
	}
	return contact, err
}
