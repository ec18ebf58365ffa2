package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"

	"Printhub/config"
	"Printhub/dao"
	"Printhub/models"
	"Printhub/pkg/response"
	"Printhub/pkg/snowflake"
	"Printhub/pkg/utils"
	"Printhub/types"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var _ IQuoteService = (*QuoteService)(nil)

type IQuoteService interface {
	// Create 提交报价请求；userID 为 0 表示游客
	Create(ctx context.Context, userID uint64, req *types.CreateQuoteRequest, file *multipart.FileHeader) (*types.CreateQuoteResponse, error)
	// CreateFromSaved 用已存档的模型文件发起报价
	CreateFromSaved(ctx context.Context, userID, savedModelID uint64, req *types.CreateQuoteRequest) (*types.CreateQuoteResponse, error)
	ListMine(ctx context.Context, userID uint64, cursor int64, limit int) (*types.ListQuotesResponse, error)
	GetByRef(ctx context.Context, ref string) (*models.Quote, error)
	ListAll(ctx context.Context, status string, cursor int64, limit int) (*types.ListQuotesResponse, error)
	AdminUpdate(ctx context.Context, quoteID uint64, req *types.UpdateQuoteStatusRequest) error
	FileURL(ctx context.Context, quoteID uint64) (string, error)

	SaveModel(ctx context.Context, userID uint64, name string, file *multipart.FileHeader) (*models.SavedModel, error)
	ListSavedModels(ctx context.Context, userID uint64) ([]*models.SavedModel, error)
	DeleteSavedModel(ctx context.Context, userID, modelID uint64) error
}

// 报价单状态机：目标状态 -> 允许的来源状态
var quoteTransitions = map[string][]string{
	models.QuoteStatusReviewing: {models.QuoteStatusPending},
	models.QuoteStatusQuoted:    {models.QuoteStatusPending, models.QuoteStatusReviewing},
	models.QuoteStatusApproved:  {models.QuoteStatusQuoted},
	models.QuoteStatusRejected:  {models.QuoteStatusPending, models.QuoteStatusReviewing, models.QuoteStatusQuoted},
}

type QuoteService struct {
	Config      *config.Config
	Quotes      *dao.Quote
	SavedModels *dao.SavedModel
	Storage     IStorageService
	Notify      INotifyService
}

func NewQuoteService(cfg *config.Config, quotes *dao.Quote, saved *dao.SavedModel, storage IStorageService, notify INotifyService) *QuoteService {
	return &QuoteService{
		Config:      cfg,
		Quotes:      quotes,
		SavedModels: saved,
		Storage:     storage,
		Notify:      notify,
	}
}

func (s *QuoteService) Create(ctx context.Context, userID uint64, req *types.CreateQuoteRequest, file *multipart.FileHeader) (*types.CreateQuoteResponse, error) {
	if file == nil {
		return nil, response.ErrValidation("缺少模型文件")
	}
	key, err := s.Storage.UploadModelFile(ctx, file)
	if err != nil {
		return nil, err
	}
	return s.create(ctx, userID, req, key, file.Filename)
}

func (s *QuoteService) CreateFromSaved(ctx context.Context, userID, savedModelID uint64, req *types.CreateQuoteRequest) (*types.CreateQuoteResponse, error) {
	saved, err := s.SavedModels.FindByWhere(ctx, "id = ? AND user_id = ?", savedModelID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.ErrNotFound("模型文件不存在")
		}
		return nil, err
	}
	return s.create(ctx, userID, req, saved.FileKey, saved.Name)
}

func (s *QuoteService) create(ctx context.Context, userID uint64, req *types.CreateQuoteRequest, fileKey, fileName string) (*types.CreateQuoteResponse, error) {
	specs, err := json.Marshal(req.QuoteSpecs)
	if err != nil {
		return nil, err
	}

	quote := &models.Quote{
		QuoteRef:       utils.GenHashID(s.Config.App.HashSalt, int(snowflake.GenID()%1_000_000_000)),
		ContactName:    req.ContactName,
		ContactEmail:   req.ContactEmail,
		ContactPhone:   req.ContactPhone,
		FileKey:        fileKey,
		FileName:       fileName,
		Specifications: datatypes.JSON(specs),
		Status:         models.QuoteStatusPending,
	}
	if userID > 0 {
		quote.UserID = &userID
	}
	if err := s.Quotes.Create(ctx, quote); err != nil {
		return nil, err
	}
	return &types.CreateQuoteResponse{
		QuoteRef: quote.QuoteRef,
		Status:   quote.Status,
	}, nil
}

func (s *QuoteService) ListMine(ctx context.Context, userID uint64, cursor int64, limit int) (*types.ListQuotesResponse, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	quotes, err := s.Quotes.ListByUser(ctx, userID, cursor, limit+1)
	if err != nil {
		return nil, err
	}
	return buildQuotePage(quotes, limit), nil
}

func (s *QuoteService) GetByRef(ctx context.Context, ref string) (*models.Quote, error) {
	quote, err := s.Quotes.FindByWhere(ctx, "quote_ref = ?", ref)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.ErrNotFound("报价单不存在")
		}
		return nil, err
	}
	return quote, nil
}

func (s *QuoteService) ListAll(ctx context.Context, status string, cursor int64, limit int) (*types.ListQuotesResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	quotes, err := s.Quotes.ListAll(ctx, status, cursor, limit+1)
	if err != nil {
		return nil, err
	}
	return buildQuotePage(quotes, limit), nil
}

func buildQuotePage(quotes []*models.Quote, limit int) *types.ListQuotesResponse {
	hasMore := false
	if len(quotes) > limit {
		hasMore = true
		quotes = quotes[:limit]
	}
	nextCursor := int64(0)
	if len(quotes) > 0 {
		nextCursor = int64(quotes[len(quotes)-1].ID)
	}
	return &types.ListQuotesResponse{Quotes: quotes, HasMore: hasMore, NextCursor: nextCursor}
}

func (s *QuoteService) AdminUpdate(ctx context.Context, quoteID uint64, req *types.UpdateQuoteStatusRequest) error {
	quote, err := s.Quotes.FindById(ctx, quoteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.ErrNotFound("报价单不存在")
		}
		return err
	}

	updates := map[string]any{}
	if req.Status != quote.Status {
		from, ok := quoteTransitions[req.Status]
		if !ok {
			return response.ErrValidation("不支持的目标状态")
		}
		allowed := false
		for _, f := range from {
			if quote.Status == f {
				allowed = true
				break
			}
		}
		if !allowed {
			return response.ErrConflict(
				fmt.Sprintf("报价单当前状态 %s 不允许迁移到 %s", quote.Status, req.Status))
		}
		updates["status"] = req.Status
	}

	if req.Status == models.QuoteStatusQuoted {
		price, err := decimal.NewFromString(req.EstimatedPrice)
		if err != nil || !price.IsPositive() {
			return response.ErrValidation("报价金额不合法")
		}
		updates["estimated_price"] = price.Round(2)
	}
	if req.AdminNotes != "" {
		updates["admin_notes"] = req.AdminNotes
	}
	if len(updates) == 0 {
		return nil
	}

	if _, err := s.Quotes.UpdateById(ctx, quoteID, updates); err != nil {
		return err
	}

	if _, changed := updates["status"]; changed {
		extra := quoteStatusText(req.Status)
		if req.Status == models.QuoteStatusQuoted {
			extra = fmt.Sprintf("%s，报价 %s 元", extra, req.EstimatedPrice)
		}
		s.Notify.Dispatch(NotifyEvent{
			Type:     EventQuoteUpdated,
			Email:    quote.ContactEmail,
			QuoteRef: quote.QuoteRef,
			Extra:    extra,
		})
	}
	return nil
}

func quoteStatusText(status string) string {
	switch status {
	case models.QuoteStatusReviewing:
		return "审核中"
	case models.QuoteStatusQuoted:
		return "已报价"
	case models.QuoteStatusApproved:
		return "已确认"
	case models.QuoteStatusRejected:
		return "已婉拒"
	}
	return status
}

// FileURL 管理员查看模型文件的临时链接，15 分钟有效
func (s *QuoteService) FileURL(ctx context.Context, quoteID uint64) (string, error) {
	quote, err := s.Quotes.FindById(ctx, quoteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", response.ErrNotFound("报价单不存在")
		}
		return "", err
	}
	return s.Storage.SignURL(ctx, quote.FileKey, 15*60)
}

func (s *QuoteService) SaveModel(ctx context.Context, userID uint64, name string, file *multipart.FileHeader) (*models.SavedModel, error) {
	if file == nil {
		return nil, response.ErrValidation("缺少模型文件")
	}
	key, err := s.Storage.UploadModelFile(ctx, file)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = file.Filename
	}
	saved := &models.SavedModel{
		UserID:   userID,
		Name:     name,
		FileKey:  key,
		FileSize: file.Size,
	}
	if err := s.SavedModels.Create(ctx, saved); err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *QuoteService) ListSavedModels(ctx context.Context, userID uint64) ([]*models.SavedModel, error) {
	return s.SavedModels.ListByUser(ctx, userID)
}

func (s *QuoteService) DeleteSavedModel(ctx context.Context, userID, modelID uint64) error {
	saved, err := s.SavedModels.FindByWhere(ctx, "id = ? AND user_id = ?", modelID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.ErrNotFound("模型文件不存在")
		}
		return err
	}
	affected, err := s.SavedModels.DeleteByIdAndUser(ctx, modelID, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return response.ErrNotFound("模型文件不存在")
	}
	_ = s.Storage.Delete(ctx, saved.FileKey)
	return nil
}
