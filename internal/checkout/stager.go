package checkout

import (
	"context"
	"fmt"
	"log"

	"storefront/internal/models"
)

// ProfileReader loads a registered customer's stored profile.
type ProfileReader interface {
	FindUserByID(ctx context.Context, id int64) (*models.User, error)
}

// Stager validates and stages checkout choices for a session.
type Stager struct {
	store    Store
	profiles ProfileReader
}

func NewStager(store Store, profiles ProfileReader) *Stager {
	return &Stager{store: store, profiles: profiles}
}

// StageDeliveryAndPayment stores both methods, keeping any staged address.
// Unknown values fail with ErrInvalidSelection and leave the state untouched.
func (s *Stager) StageDeliveryAndPayment(ctx context.Context, sessionID string, delivery models.DeliveryMethod, payment models.PaymentMethod) error {
	if err := validateMethods(delivery, payment); err != nil {
		return err
	}

	selection, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return err
	}
	selection.DeliveryMethod = delivery
	selection.PaymentMethod = payment

	return s.store.Save(ctx, sessionID, selection)
}

// StageAddress resolves the address from its source and stores it. Nothing is
// stored when resolution fails.
func (s *Stager) StageAddress(ctx context.Context, sessionID string, source AddressSource) (models.Address, error) {
	address, err := s.resolve(ctx, source)
	if err != nil {
		return models.Address{}, err
	}

	selection, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return models.Address{}, err
	}
	selection.Address = &address

	if err := s.store.Save(ctx, sessionID, selection); err != nil {
		return models.Address{}, err
	}
	return address, nil
}

// Stage validates the delivery and payment methods, resolves the address
// from its source and stores all three in a single write. Any failure leaves
// the previously staged selection untouched.
func (s *Stager) Stage(ctx context.Context, sessionID string, delivery models.DeliveryMethod, payment models.PaymentMethod, source AddressSource) (Selection, error) {
	if err := validateMethods(delivery, payment); err != nil {
		return Selection{}, err
	}

	address, err := s.resolve(ctx, source)
	if err != nil {
		return Selection{}, err
	}

	selection := Selection{
		DeliveryMethod: delivery,
		PaymentMethod:  payment,
		Address:        &address,
	}
	if err := s.store.Save(ctx, sessionID, selection); err != nil {
		return Selection{}, err
	}
	return selection, nil
}

func validateMethods(delivery models.DeliveryMethod, payment models.PaymentMethod) error {
	if !delivery.Valid() {
		return fmt.Errorf("%w: unknown delivery method %q", ErrInvalidSelection, delivery)
	}
	if !payment.Valid() {
		return fmt.Errorf("%w: unknown payment method %q", ErrInvalidSelection, payment)
	}
	return nil
}

func (s *Stager) resolve(ctx context.Context, source AddressSource) (models.Address, error) {
	switch src := source.(type) {
	case Registered:
		user, err := s.profiles.FindUserByID(ctx, src.UserID)
		if err != nil {
			return models.Address{}, fmt.Errorf("load profile %d: %w", src.UserID, err)
		}
		address := user.ShippingAddress()
		if missing := address.MissingFields(); len(missing) > 0 {
			log.Printf("[CHECKOUT] [ERROR] profile %d is incomplete: %v", src.UserID, missing)
			fields := make(map[string]string, len(missing))
			for _, name := range missing {
				fields[name] = "is missing from profile"
			}
			return models.Address{}, &AddressError{Fields: fields}
		}
		return address, nil
	case Guest:
		return ValidateAddress(src.Address)
	default:
		return models.Address{}, fmt.Errorf("%w: unsupported address source %T", ErrInvalidAddress, source)
	}
}

func (s *Stager) Load(ctx context.Context, sessionID string) (Selection, error) {
	return s.store.Load(ctx, sessionID)
}

// Clear drops all staged fields. Safe to call when nothing is staged.
func (s *Stager) Clear(ctx context.Context, sessionID string) error {
	return s.store.Clear(ctx, sessionID)
}
