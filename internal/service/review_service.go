package service

import (
	"context"

	"coffee-shop/internal/apperror"
	"coffee-shop/internal/entity"
	"coffee-shop/internal/repository"
)

type ReviewService struct {
	repo *repository.Repository
}

func NewReviewService(repo *repository.Repository) *ReviewService {
	return &ReviewService{repo: repo}
}

type ReviewInput struct {
	CustomerID uint   `json:"customer_id"`
	ProductID  uint   `json:"product_id"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
}

func (s *ReviewService) CreateReview(ctx context.Context, in ReviewInput) (*entity.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, apperror.NewValidation("rating must be between 1 and 5")
	}
	if _, err := s.repo.GetCustomer(ctx, in.CustomerID); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetProduct(ctx, in.ProductID); err != nil {
		return nil, err
	}
	review := &entity.Review{CustomerID: in.CustomerID, ProductID: in.ProductID, Rating: in.Rating, Comment: in.Comment}
	if err := s.repo.CreateReview(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// ListReviews returns reviews for one product, or all when productID is 0.
func (s *ReviewService) ListReviews(ctx context.Context, productID uint) ([]entity.Review, error) {
	return s.repo.ListReviews(ctx, productID)
}

func (s *ReviewService) DeleteReview(ctx context.Context, id uint) error {
	return s.repo.DeleteReview(ctx, id)
}
