package cart

import (
	"context"

	"github.com/xiebiao/libratech/internal/domain/pricing"
)

// recommendationLimit 推荐位展示的图书数量
const recommendationLimit = 4

// RecommendationsUseCase 购物车页推荐位用例
// 空购物车时展示最新上架的图书,数据来自目录服务
type RecommendationsUseCase struct {
	catalog pricing.CatalogClient
}

// NewRecommendationsUseCase 创建推荐位用例
func NewRecommendationsUseCase(catalog pricing.CatalogClient) *RecommendationsUseCase {
	return &RecommendationsUseCase{catalog: catalog}
}

// Execute 查询推荐图书
func (uc *RecommendationsUseCase) Execute(ctx context.Context) (*RecommendationsResponse, error) {
	books, err := uc.catalog.FetchLatest(ctx, recommendationLimit)
	if err != nil {
		return nil, err
	}

	items := make([]RecommendedBook, 0, len(books))
	for _, b := range books {
		items = append(items, RecommendedBook{
			BookID: b.ID,
			Title:  b.Title,
			Author: b.Author,
			Image:  b.Image,
			Price:  NewMoney(b.Price),
		})
	}

	return &RecommendationsResponse{Books: items}, nil
}

// RecommendationsResponse 推荐位响应
type RecommendationsResponse struct {
	Books []RecommendedBook `json:"books"`
}

// RecommendedBook 推荐图书
type RecommendedBook struct {
	BookID string `json:"book_id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Image  string `json:"image"`
	Price  Money  `json:"price"`
}
