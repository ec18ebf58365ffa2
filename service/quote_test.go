package service

import (
	"context"
	"mime/multipart"
	"testing"

	"Printhub/config"
	"Printhub/dao"
	"Printhub/models"
	"Printhub/pkg/response"
	"Printhub/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// stubStorage 测试里不碰真实对象存储
type stubStorage struct {
	uploaded []string
	deleted  []string
}

var _ IStorageService = (*stubStorage)(nil)

func (s *stubStorage) UploadImage(_ context.Context, header *multipart.FileHeader) (string, string, error) {
	s.uploaded = append(s.uploaded, header.Filename)
	return "img/" + header.Filename, "https://cdn.test/img/" + header.Filename, nil
}

func (s *stubStorage) UploadModelFile(_ context.Context, header *multipart.FileHeader) (string, error) {
	s.uploaded = append(s.uploaded, header.Filename)
	return "quote/" + header.Filename, nil
}

func (s *stubStorage) SignURL(_ context.Context, key string, _ int64) (string, error) {
	return "https://cdn.test/signed/" + key, nil
}

func (s *stubStorage) Delete(_ context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	return nil
}

func newQuoteTestEnv(t *testing.T) (*QuoteService, *gorm.DB, *notifyRecorder, *stubStorage) {
	t.Helper()
	db := newTestDB(t)
	cfg := &config.Config{
		App: &config.App{HashSalt: "test-salt"},
	}
	rec := &notifyRecorder{}
	storage := &stubStorage{}
	svc := NewQuoteService(cfg, dao.NewQuote(db), dao.NewSavedModel(db), storage, rec)
	return svc, db, rec, storage
}

func quoteRequest() *types.CreateQuoteRequest {
	return &types.CreateQuoteRequest{
		ContactName:  "李四",
		ContactEmail: "lisi@example.com",
		QuoteSpecs: types.QuoteSpecs{
			Material: "PLA",
			Quality:  "0.2mm",
			Quantity: 3,
		},
	}
}

func TestQuoteCreateGuest(t *testing.T) {
	svc, db, _, _ := newQuoteTestEnv(t)

	file := &multipart.FileHeader{Filename: "bracket.stl", Size: 1024}
	resp, err := svc.Create(context.Background(), 0, quoteRequest(), file)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.QuoteRef)
	assert.Equal(t, models.QuoteStatusPending, resp.Status)

	var quote models.Quote
	require.NoError(t, db.Where("quote_ref = ?", resp.QuoteRef).First(&quote).Error)
	// 游客提交不关联账号
	assert.Nil(t, quote.UserID)
	assert.Equal(t, "quote/bracket.stl", quote.FileKey)
	assert.Contains(t, string(quote.Specifications), "PLA")
}

func TestQuoteCreateLinksUser(t *testing.T) {
	svc, db, _, _ := newQuoteTestEnv(t)
	user := seedUser(t, db)

	file := &multipart.FileHeader{Filename: "bracket.stl", Size: 1024}
	resp, err := svc.Create(context.Background(), user.ID, quoteRequest(), file)
	require.NoError(t, err)

	var quote models.Quote
	require.NoError(t, db.Where("quote_ref = ?", resp.QuoteRef).First(&quote).Error)
	require.NotNil(t, quote.UserID)
	assert.Equal(t, user.ID, *quote.UserID)
}

func TestQuoteAdminUpdateFlow(t *testing.T) {
	svc, db, rec, _ := newQuoteTestEnv(t)

	file := &multipart.FileHeader{Filename: "bracket.stl", Size: 1024}
	resp, err := svc.Create(context.Background(), 0, quoteRequest(), file)
	require.NoError(t, err)

	var quote models.Quote
	require.NoError(t, db.Where("quote_ref = ?", resp.QuoteRef).First(&quote).Error)
	ctx := context.Background()

	// 报价必须带金额
	err = svc.AdminUpdate(ctx, quote.ID, &types.UpdateQuoteStatusRequest{
		Status: models.QuoteStatusQuoted,
	})
	require.Error(t, err)
	assert.Equal(t, 400, err.(*response.BizError).Code)

	require.NoError(t, svc.AdminUpdate(ctx, quote.ID, &types.UpdateQuoteStatusRequest{
		Status:         models.QuoteStatusQuoted,
		EstimatedPrice: "450.00",
		AdminNotes:     "含后处理",
	}))

	var updated models.Quote
	require.NoError(t, db.First(&updated, quote.ID).Error)
	assert.Equal(t, models.QuoteStatusQuoted, updated.Status)
	require.NotNil(t, updated.EstimatedPrice)
	assert.Equal(t, "450", updated.EstimatedPrice.String())

	// 状态变更给联系邮箱发通知
	require.NotEmpty(t, rec.events)
	assert.Equal(t, EventQuoteUpdated, rec.events[len(rec.events)-1].Type)
	assert.Equal(t, "lisi@example.com", rec.events[len(rec.events)-1].Email)

	// quoted 之后不能回到 reviewing
	err = svc.AdminUpdate(ctx, quote.ID, &types.UpdateQuoteStatusRequest{
		Status: models.QuoteStatusReviewing,
	})
	require.Error(t, err)
	assert.Equal(t, 409, err.(*response.BizError).Code)

	require.NoError(t, svc.AdminUpdate(ctx, quote.ID, &types.UpdateQuoteStatusRequest{
		Status: models.QuoteStatusApproved,
	}))
}

func TestQuoteGetByRef(t *testing.T) {
	svc, _, _, _ := newQuoteTestEnv(t)

	file := &multipart.FileHeader{Filename: "bracket.stl", Size: 1024}
	resp, err := svc.Create(context.Background(), 0, quoteRequest(), file)
	require.NoError(t, err)

	quote, err := svc.GetByRef(context.Background(), resp.QuoteRef)
	require.NoError(t, err)
	assert.Equal(t, resp.QuoteRef, quote.QuoteRef)

	_, err = svc.GetByRef(context.Background(), "nope")
	require.Error(t, err)
	assert.Equal(t, 404, err.(*response.BizError).Code)
}

func TestSavedModelLifecycle(t *testing.T) {
	svc, db, _, storage := newQuoteTestEnv(t)
	user := seedUser(t, db)
	ctx := context.Background()

	file := &multipart.FileHeader{Filename: "gear.3mf", Size: 2048}
	saved, err := svc.SaveModel(ctx, user.ID, "齿轮 v2", file)
	require.NoError(t, err)
	assert.Equal(t, "齿轮 v2", saved.Name)
	assert.EqualValues(t, 2048, saved.FileSize)

	// 用存档文件发起报价，不需要再上传
	resp, err := svc.CreateFromSaved(ctx, user.ID, saved.ID, quoteRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, resp.QuoteRef)

	// 别人的存档不可见
	_, err = svc.CreateFromSaved(ctx, user.ID+1, saved.ID, quoteRequest())
	require.Error(t, err)
	assert.Equal(t, 404, err.(*response.BizError).Code)

	list, err := svc.ListSavedModels(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.DeleteSavedModel(ctx, user.ID, saved.ID))
	assert.Contains(t, storage.deleted, saved.FileKey)
}
