package services

import (
	"context"
	"strings"

	"github.com/HariKrishnaKumar/bitewise-backend/internal/domain/errs"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/doordash"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/geocoding"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/logger"
)

type CreateDeliveryInput struct {
	OrderID            string `json:"order_id"`
	PickupAddress      string `json:"pickup_address"`
	PickupBusinessName string `json:"pickup_business_name"`
	PickupPhone        string `json:"pickup_phone"`
	DropoffAddress     string `json:"dropoff_address"`
	DropoffName        string `json:"dropoff_name"`
	DropoffPhone       string `json:"dropoff_phone"`
	OrderValueCents    int64  `json:"order_value_cents"`
}

type DeliveryResult struct {
	ExternalDeliveryID string           `json:"external_delivery_id"`
	Dropoff            *geocoding.Point `json:"dropoff_location,omitempty"`
	Partner            map[string]any   `json:"partner_response"`
}

type DeliveryService interface {
	Enabled() bool
	Create(ctx context.Context, in CreateDeliveryInput) (*DeliveryResult, error)
}

type deliveryService struct {
	log      *logger.Logger
	dd       doordash.Client
	geocoder geocoding.Geocoder
}

// NewDeliveryService accepts a nil partner client; Create then reports the
// integration as unavailable. A nil geocoder skips address lookup.
func NewDeliveryService(baseLog *logger.Logger, dd doordash.Client, geocoder geocoding.Geocoder) DeliveryService {
	return &deliveryService{
		log:      baseLog.With("service", "DeliveryService"),
		dd:       dd,
		geocoder: geocoder,
	}
}

func (s *deliveryService) Enabled() bool { return s.dd != nil }

func (s *deliveryService) Create(ctx context.Context, in CreateDeliveryInput) (*DeliveryResult, error) {
	const op = "delivery.create"
	if s.dd == nil {
		return nil, errs.Unavailable(op, "delivery partner")
	}
	if missing := missingDeliveryFields(in); len(missing) > 0 {
		return nil, errs.Validation(op, "missing required fields: %s", strings.Join(missing, ", "))
	}

	var point *geocoding.Point
	if s.geocoder != nil {
		p, err := s.geocoder.Geocode(ctx, in.DropoffAddress)
		switch {
		case err != nil:
			s.log.Warn("dropoff geocode failed", "error", err)
		case p == nil:
			s.log.Warn("dropoff address not found")
		default:
			point = p
		}
	}

	req := doordash.DeliveryRequest{
		PickupAddress:      strings.TrimSpace(in.PickupAddress),
		PickupBusinessName: strings.TrimSpace(in.PickupBusinessName),
		PickupPhone:        strings.TrimSpace(in.PickupPhone),
		DropoffAddress:     strings.TrimSpace(in.DropoffAddress),
		DropoffName:        strings.TrimSpace(in.DropoffName),
		DropoffPhone:       strings.TrimSpace(in.DropoffPhone),
		OrderValueCents:    in.OrderValueCents,
	}
	if id := strings.TrimSpace(in.OrderID); id != "" {
		req.PickupReferenceTag = "Order #" + id
	}
	d, err := s.dd.CreateDelivery(ctx, req)
	if err != nil {
		return nil, errs.Transport(op, err)
	}
	s.log.Info("delivery dispatched", "external_delivery_id", d.ExternalDeliveryID, "geocoded", point != nil)
	return &DeliveryResult{
		ExternalDeliveryID: d.ExternalDeliveryID,
		Dropoff:            point,
		Partner:            d.Raw,
	}, nil
}

func missingDeliveryFields(in CreateDeliveryInput) []string {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"pickup_address", in.PickupAddress},
		{"pickup_business_name", in.PickupBusinessName},
		{"pickup_phone", in.PickupPhone},
		{"dropoff_address", in.DropoffAddress},
		{"dropoff_name", in.DropoffName},
		{"dropoff_phone", in.DropoffPhone},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}
