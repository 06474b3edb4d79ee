package services

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/chiragjeevanani/krishikart-2.0-sub004/models"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/repository"
)

type AddressInput struct {
	StreetAddress  string `json:"streetAddress"`
	City           string `json:"city"`
	State          string `json:"state"`
	ZipCode        string `json:"zipCode"`
	IsUserSelected bool   `json:"isUserSelected"`
}

// Profile is the customer view of their own account.
type Profile struct {
	ID              primitive.ObjectID `json:"id"`
	Name            string             `json:"name"`
	Email           string             `json:"email"`
	Phone           string             `json:"phone"`
	WalletBalance   float64            `json:"walletBalance"`
	CreditLimit     float64            `json:"creditLimit"`
	UsedCredit      float64            `json:"usedCredit"`
	AvailableCredit float64            `json:"availableCredit"`
	CartItems       int                `json:"cartItems"`
}

type AccountService struct {
	users     repository.UserRepository
	addresses repository.AddressRepository
}

func NewAccountService(users repository.UserRepository, addresses repository.AddressRepository) *AccountService {
	return &AccountService{users: users, addresses: addresses}
}

func (s *AccountService) Profile(ctx context.Context, userID primitive.ObjectID) (*Profile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, translate(err)
	}
	return &Profile{
		ID:              user.ID,
		Name:            user.Name,
		Email:           user.Email,
		Phone:           user.Phone,
		WalletBalance:   user.WalletBalance,
		CreditLimit:     user.CreditLimit,
		UsedCredit:      user.UsedCredit,
		AvailableCredit: user.AvailableCredit(),
		CartItems:       len(user.Cart),
	}, nil
}

func (s *AccountService) AddAddress(ctx context.Context, userID primitive.ObjectID, in AddressInput) (*models.Address, error) {
	address := &models.Address{
		Id:             primitive.NewObjectID(),
		UserId:         userID,
		StreetAddress:  strings.TrimSpace(in.StreetAddress),
		City:           strings.TrimSpace(in.City),
		State:          strings.TrimSpace(in.State),
		ZipCode:        strings.TrimSpace(in.ZipCode),
		IsUserSelected: in.IsUserSelected,
	}
	if address.StreetAddress == "" || address.City == "" {
		return nil, validation("streetAddress and city are required")
	}
	if err := s.addresses.Create(ctx, address); err != nil {
		return nil, err
	}
	return address, nil
}

func (s *AccountService) Addresses(ctx context.Context, userID primitive.ObjectID) ([]models.Address, error) {
	return s.addresses.ListByUser(ctx, userID)
}

func (s *AccountService) DeleteAddress(ctx context.Context, userID, addressID primitive.ObjectID) error {
	return translate(s.addresses.Delete(ctx, addressID, userID))
}
