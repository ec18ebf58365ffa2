package service

import (
	"context"
	"errors"

	"Printhub/dao"
	"Printhub/models"
	"Printhub/pkg/response"
	"Printhub/types"

	"gorm.io/gorm"
)

var _ IAddressService = (*AddressService)(nil)

type IAddressService interface {
	List(ctx context.Context, userID uint64) ([]*models.Address, error)
	Create(ctx context.Context, userID uint64, req *types.SaveAddressRequest) (*models.Address, error)
	Update(ctx context.Context, userID, addressID uint64, req *types.SaveAddressRequest) error
	Delete(ctx context.Context, userID, addressID uint64) error
	SetDefault(ctx context.Context, userID, addressID uint64) error
}

type AddressService struct {
	Addresses *dao.Address
}

func NewAddressService(addresses *dao.Address) *AddressService {
	return &AddressService{Addresses: addresses}
}

func (s *AddressService) List(ctx context.Context, userID uint64) ([]*models.Address, error) {
	return s.Addresses.ListByUser(ctx, userID)
}

func (s *AddressService) Create(ctx context.Context, userID uint64, req *types.SaveAddressRequest) (*models.Address, error) {
	addr := &models.Address{
		UserID:     userID,
		Recipient:  req.Recipient,
		Phone:      req.Phone,
		Line1:      req.Line1,
		Line2:      req.Line2,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Country:    req.Country,
	}
	if err := s.Addresses.Create(ctx, addr); err != nil {
		return nil, err
	}
	if req.IsDefault {
		if err := s.Addresses.SetDefault(ctx, userID, addr.ID); err != nil {
			return nil, err
		}
		addr.IsDefault = true
	}
	return addr, nil
}

func (s *AddressService) Update(ctx context.Context, userID, addressID uint64, req *types.SaveAddressRequest) error {
	if _, err := s.Addresses.FindByIdAndUser(ctx, addressID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.ErrNotFound("地址不存在")
		}
		return err
	}

	_, err := s.Addresses.UpdateById(ctx, addressID, map[string]any{
		"recipient":   req.Recipient,
		"phone":       req.Phone,
		"line1":       req.Line1,
		"line2":       req.Line2,
		"city":        req.City,
		"state":       req.State,
		"postal_code": req.PostalCode,
		"country":     req.Country,
	})
	if err != nil {
		return err
	}
	if req.IsDefault {
		return s.Addresses.SetDefault(ctx, userID, addressID)
	}
	return nil
}

func (s *AddressService) Delete(ctx context.Context, userID, addressID uint64) error {
	affected, err := s.Addresses.DeleteByIdAndUser(ctx, addressID, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return response.ErrNotFound("地址不存在")
	}
	return nil
}

func (s *AddressService) SetDefault(ctx context.Context, userID, addressID uint64) error {
	if _, err := s.Addresses.FindByIdAndUser(ctx, addressID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.ErrNotFound("地址不存在")
		}
		return err
	}
	return s.Addresses.SetDefault(ctx, userID, addressID)
}
