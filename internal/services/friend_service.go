package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"social-go/internal/models"
	"social-go/internal/storage"
)

// FriendService defines the interface for friend request and friendship
// operations. Requests are directional; an accepted request becomes a
// symmetric friendship stored as two rows.
type FriendService interface {
	CreateFriendRequest(ctx context.Context, fromUserID, toUserID uint) (*models.FriendRequest, error)
	ListReceivedRequests(ctx context.Context, userID uint) ([]models.FriendRequest, error)
	ListSentRequests(ctx context.Context, userID uint) ([]models.FriendRequest, error)
	// GetReceivedRequest returns a single request addressed to userID.
	GetReceivedRequest(ctx context.Context, userID, requestID uint) (*models.FriendRequest, error)
	// GetSentRequest returns a single request sent by userID.
	GetSentRequest(ctx context.Context, userID, requestID uint) (*models.FriendRequest, error)
	// ResolveFriendRequest accepts or denies a request received by
	// userID. Accepting creates the friendship in the same transaction.
	ResolveFriendRequest(ctx context.Context, userID, requestID uint, status models.FriendRequestStatus) (*models.FriendRequest, error)
	// WithdrawFriendRequest deletes a still-pending request sent by userID.
	WithdrawFriendRequest(ctx context.Context, userID, requestID uint) error
	ListFriends(ctx context.Context, userID uint) ([]models.Friend, error)
	// GetFriend returns one of userID's own friend rows.
	GetFriend(ctx context.Context, userID, friendID uint) (*models.Friend, error)
	// DeleteFriend removes a friendship owned by userID, both rows at once.
	DeleteFriend(ctx context.Context, userID, friendID uint) error
}

type friendService struct {
	db          *gorm.DB
	userRepo    storage.UserRepository
	requestRepo storage.FriendRequestRepository
	friendRepo  storage.FriendRepository
}

// NewFriendService creates a new FriendService instance.
func NewFriendService(
	db *gorm.DB,
	userRepo storage.UserRepository,
	requestRepo storage.FriendRequestRepository,
	friendRepo storage.FriendRepository,
) FriendService {
	return &friendService{
		db:          db,
		userRepo:    userRepo,
		requestRepo: requestRepo,
		friendRepo:  friendRepo,
	}
}

// CreateFriendRequest sends a request from fromUserID to toUserID.
// Fails if the recipient does not exist, the users are already friends,
// or a pending request already links them in either direction.
func (s *friendService) CreateFriendRequest(ctx context.Context, fromUserID, toUserID uint) (*models.FriendRequest, error) {
	if _, err := s.userRepo.GetByID(ctx, toUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %d: %w", toUserID, ErrDoesNotExist)
		}
		return nil, fmt.Errorf("failed to check recipient: %w", err)
	}

	existing, err := s.friendRepo.FindPair(ctx, fromUserID, toUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check friendship: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("friendship with user %d: %w", toUserID, ErrAlreadyExists)
	}

	pending, err := s.requestRepo.FindPendingBetween(ctx, fromUserID, toUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing requests: %w", err)
	}
	if pending != nil {
		return nil, fmt.Errorf("friend request between users %d and %d: %w", fromUserID, toUserID, ErrAlreadyExists)
	}

	request := &models.FriendRequest{
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Status:     models.FriendRequestStatusPending,
	}
	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to create friend request: %w", err)
	}
	return request, nil
}

// ListReceivedRequests returns the pending requests addressed to userID.
func (s *friendService) ListReceivedRequests(ctx context.Context, userID uint) ([]models.FriendRequest, error) {
	requests, err := s.requestRepo.ListPendingReceived(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list received friend requests: %w", err)
	}
	return requests, nil
}

// ListSentRequests returns the pending requests userID has sent.
func (s *friendService) ListSentRequests(ctx context.Context, userID uint) ([]models.FriendRequest, error) {
	requests, err := s.requestRepo.ListPendingSent(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sent friend requests: %w", err)
	}
	return requests, nil
}

// GetReceivedRequest returns a request addressed to userID. A request
// sent by someone else to a third party reads as missing.
func (s *friendService) GetReceivedRequest(ctx context.Context, userID, requestID uint) (*models.FriendRequest, error) {
	request, err := s.requestRepo.GetReceivedByID(ctx, requestID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("friend request %d: %w", requestID, ErrDoesNotExist)
		}
		return nil, fmt.Errorf("failed to load friend request %d: %w", requestID, err)
	}
	return request, nil
}

// GetSentRequest returns a request userID sent.
func (s *friendService) GetSentRequest(ctx context.Context, userID, requestID uint) (*models.FriendRequest, error) {
	request, err := s.requestRepo.GetSentByID(ctx, requestID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("friend request %d: %w", requestID, ErrDoesNotExist)
		}
		return nil, fmt.Errorf("failed to load friend request %d: %w", requestID, err)
	}
	return request, nil
}

// ResolveFriendRequest moves a pending request to ACCEPTED or DENIED.
// The request must be addressed to userID; the sender cannot resolve it.
func (s *friendService) ResolveFriendRequest(ctx context.Context, userID, requestID uint, status models.FriendRequestStatus) (*models.FriendRequest, error) {
	var resolved *models.FriendRequest

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRequestRepo := storage.NewGormFriendRequestRepository(tx)
		txFriendRepo := storage.NewGormFriendRepository(tx)

		request, err := txRequestRepo.GetReceivedByID(ctx, requestID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("friend request %d: %w", requestID, ErrDoesNotExist)
			}
			return fmt.Errorf("failed to load friend request %d: %w", requestID, err)
		}

		if request.Status != models.FriendRequestStatusPending {
			return fmt.Errorf("friend request %d: %w", requestID, ErrAlreadyHandled)
		}

		if err := txRequestRepo.UpdateStatus(ctx, requestID, status); err != nil {
			return fmt.Errorf("failed to update friend request %d: %w", requestID, err)
		}
		request.Status = status

		if status == models.FriendRequestStatusAccepted {
			pair := []models.Friend{
				{UserID: request.FromUserID, FriendUserID: request.ToUserID},
				{UserID: request.ToUserID, FriendUserID: request.FromUserID},
			}
			for i := range pair {
				if err := txFriendRepo.Create(ctx, &pair[i]); err != nil {
					return fmt.Errorf("failed to create friendship rows: %w", err)
				}
			}
			log.Printf("Friendship created between %d and %d from request %d", request.FromUserID, request.ToUserID, requestID)
		}

		resolved = request
		return nil
	})

	if txErr != nil {
		return nil, txErr
	}
	return resolved, nil
}

// WithdrawFriendRequest deletes a pending request userID sent. Requests
// already resolved by the recipient stay on record.
func (s *friendService) WithdrawFriendRequest(ctx context.Context, userID, requestID uint) error {
	request, err := s.requestRepo.GetSentByID(ctx, requestID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("friend request %d: %w", requestID, ErrDoesNotExist)
		}
		return fmt.Errorf("failed to load friend request %d: %w", requestID, err)
	}

	if request.Status != models.FriendRequestStatusPending {
		return fmt.Errorf("friend request %d: %w", requestID, ErrAlreadyHandled)
	}

	if err := s.requestRepo.Delete(ctx, requestID); err != nil {
		return fmt.Errorf("failed to delete friend request %d: %w", requestID, err)
	}
	return nil
}

// ListFriends returns userID's side of every friendship.
func (s *friendService) ListFriends(ctx context.Context, userID uint) ([]models.Friend, error) {
	friends, err := s.friendRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	return friends, nil
}

// GetFriend returns the friend row identified by friendID. Another
// user's side of a friendship reads as missing.
func (s *friendService) GetFriend(ctx context.Context, userID, friendID uint) (*models.Friend, error) {
	friend, err := s.friendRepo.GetByID(ctx, friendID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("friendship %d: %w", friendID, ErrDoesNotExist)
		}
		return nil, fmt.Errorf("failed to load friendship %d: %w", friendID, err)
	}
	if friend.UserID != userID {
		return nil, fmt.Errorf("friendship %d: %w", friendID, ErrDoesNotExist)
	}
	return friend, nil
}

// DeleteFriend removes the friendship identified by userID's own friend
// row, deleting both directional rows in one transaction.
func (s *friendService) DeleteFriend(ctx context.Context, userID, friendID uint) error {
	friend, err := s.friendRepo.GetByID(ctx, friendID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("friendship %d: %w", friendID, ErrDoesNotExist)
		}
		return fmt.Errorf("failed to load friendship %d: %w", friendID, err)
	}

	if friend.UserID != userID {
		return fmt.Errorf("friendship %d: %w", friendID, ErrPermissionDenied)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txFriendRepo := storage.NewGormFriendRepository(tx)
		if err := txFriendRepo.DeletePair(ctx, friend.UserID, friend.FriendUserID); err != nil {
			return fmt.Errorf("failed to delete friendship rows: %w", err)
		}
		return nil
	})
}
