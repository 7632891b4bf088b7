package usecase

import (
	"github.com/debeshghorui/Roomsy/internal/domain"
	"github.com/debeshghorui/Roomsy/internal/platform/logger"
	"go.uber.org/zap"
)

// Authorizer decides whether the acting principal may mutate a listing or
// review. It only returns a decision; missing resources are reported by the
// caller as NotFound before authorization runs, never folded into a denial.
type Authorizer struct {
	logger *logger.Logger
}

func NewAuthorizer(log *logger.Logger) *Authorizer {
	return &Authorizer{logger: log.Named("Authorizer")}
}

// RequirePrincipal gates actions that need an authenticated actor.
func (a *Authorizer) RequirePrincipal(principal *domain.Principal) error {
	if principal == nil {
		return domain.ErrUnauthenticated
	}
	return nil
}

// AuthorizeListing allows listing mutations only for the listing's owner.
func (a *Authorizer) AuthorizeListing(principal *domain.Principal, listing *domain.Listing) error {
	if principal == nil {
		return domain.ErrUnauthenticated
	}
	if listing.OwnerID != principal.UserID {
		a.logger.Warn("Principal forbidden to mutate listing",
			zap.String("listing_id", listing.ID.Hex()),
			zap.String("listing_owner", listing.OwnerID.Hex()),
			zap.String("principal", principal.UserID.Hex()))
		return domain.ErrForbidden
	}
	return nil
}

// AuthorizeReview allows review mutations only for the review's author.
func (a *Authorizer) AuthorizeReview(principal *domain.Principal, review *domain.Review) error {
	if principal == nil {
		return domain.ErrUnauthenticated
	}
	if review.AuthorID != principal.UserID {
		a.logger.Warn("Principal forbidden to mutate review",
			zap.String("review_id", review.ID.Hex()),
			zap.String("review_author", review.AuthorID.Hex()),
			zap.String("principal", principal.UserID.Hex()))
		return domain.ErrForbidden
	}
	return nil
}
