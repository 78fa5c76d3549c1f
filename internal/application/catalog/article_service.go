package catalog

import (
	"context"

	"github.com/chantier/backend/internal/domain/catalog"
	"github.com/chantier/backend/internal/domain/shared"
	"github.com/chantier/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// ArticleService handles catalog article business operations
type ArticleService struct {
	articleRepo    catalog.ArticleRepository
	eventPublisher shared.EventPublisher
}

// NewArticleService creates a new ArticleService
func NewArticleService(articleRepo catalog.ArticleRepository) *ArticleService {
	return &ArticleService{articleRepo: articleRepo}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ArticleService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new catalog article
func (s *ArticleService) Create(ctx context.Context, req CreateArticleRequest) (*ArticleResponse, error) {
	exists, err := s.articleRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "Article with this code already exists")
	}

	article, err := catalog.NewArticle(req.Code, req.Label, req.Unit, valueobject.NewMoneyEUR(req.UnitPrice), req.Category)
	if err != nil {
		return nil, err
	}

	if err := s.articleRepo.Save(ctx, article); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, article)

	resp := ToArticleResponse(article)
	return &resp, nil
}

// GetByID retrieves an article by ID
func (s *ArticleService) GetByID(ctx context.Context, id uuid.UUID) (*ArticleResponse, error) {
	article, err := s.articleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToArticleResponse(article)
	return &resp, nil
}

// List lists articles matching the filter with the total match count
func (s *ArticleService) List(ctx context.Context, filter shared.Filter) ([]ArticleResponse, int64, error) {
	articles, err := s.articleRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.articleRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	items := make([]ArticleResponse, 0, len(articles))
	for i := range articles {
		items = append(items, ToArticleResponse(&articles[i]))
	}
	return items, total, nil
}

// Update changes an article's label or price
func (s *ArticleService) Update(ctx context.Context, id uuid.UUID, req UpdateArticleRequest) (*ArticleResponse, error) {
	article, err := s.articleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Label != nil {
		if err := article.UpdateLabel(*req.Label); err != nil {
			return nil, err
		}
	}
	if req.UnitPrice != nil {
		if err := article.UpdatePrice(valueobject.NewMoneyEUR(*req.UnitPrice)); err != nil {
			return nil, err
		}
	}

	if err := s.articleRepo.Save(ctx, article); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, article)

	resp := ToArticleResponse(article)
	return &resp, nil
}

// Deactivate deactivates an article without removing it
func (s *ArticleService) Deactivate(ctx context.Context, id uuid.UUID) (*ArticleResponse, error) {
	return s.toggle(ctx, id, func(a *catalog.Article) error { return a.Deactivate() })
}

// Reactivate reactivates a deactivated article
func (s *ArticleService) Reactivate(ctx context.Context, id uuid.UUID) (*ArticleResponse, error) {
	return s.toggle(ctx, id, func(a *catalog.Article) error { return a.Reactivate() })
}

// Delete soft-deletes an article. Historical quotes keep their reference.
func (s *ArticleService) Delete(ctx context.Context, id, by uuid.UUID) error {
	article, err := s.articleRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := article.SoftDelete(by); err != nil {
		return err
	}

	if err := s.articleRepo.Save(ctx, article); err != nil {
		return err
	}

	s.publishEvents(ctx, article)
	return nil
}

func (s *ArticleService) toggle(ctx context.Context, id uuid.UUID, op func(*catalog.Article) error) (*ArticleResponse, error) {
	article, err := s.articleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := op(article); err != nil {
		return nil, err
	}

	if err := s.articleRepo.Save(ctx, article); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, article)

	resp := ToArticleResponse(article)
	return &resp, nil
}

func (s *ArticleService) publishEvents(ctx context.Context, article *catalog.Article) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range article.GetDomainEvents() {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			continue
		}
	}
	article.ClearDomainEvents()
}
