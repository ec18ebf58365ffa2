package service

import (
	"context"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"Printhub/config"
	"Printhub/pkg/response"
	"Printhub/pkg/snowflake"

	"github.com/aliyun/alibabacloud-oss-go-sdk-v2/oss"
	"github.com/aliyun/alibabacloud-oss-go-sdk-v2/oss/credentials"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

var _ IStorageService = (*StorageService)(nil)

type IStorageService interface {
	// UploadImage 商品图片上传，返回对象 key 和外链
	UploadImage(ctx context.Context, header *multipart.FileHeader) (key, url string, err error)

	// UploadModelFile 打印模型文件上传（报价用）
	UploadModelFile(ctx context.Context, header *multipart.FileHeader) (key string, err error)

	// SignURL 模型文件的临时下载链接（秒）
	SignURL(ctx context.Context, objectKey string, expireSeconds int64) (string, error)

	Delete(ctx context.Context, objectKey string) error
}

type StorageService struct {
	Client    *oss.Client
	Bucket    string
	AssetHost string
}

func NewStorageService(cfg *config.Config) *StorageService {
	ossCfg := oss.LoadDefaultConfig().
		WithEndpoint(cfg.Oss.Endpoint).
		WithRegion(cfg.Oss.Region).
		WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				cfg.Oss.AccessKeyID,
				cfg.Oss.AccessKeySecret,
			),
		)

	return &StorageService{
		Client:    oss.NewClient(ossCfg),
		Bucket:    cfg.Oss.Bucket,
		AssetHost: cfg.App.AssetHost,
	}
}

const maxImageSize int64 = 10 << 20 // 10MB

func (s *StorageService) UploadImage(ctx context.Context, header *multipart.FileHeader) (string, string, error) {
	if header == nil {
		return "", "", response.ErrValidation("缺少图片文件")
	}
	// header.Size 不可信，但可做第一道拦截
	if header.Size <= 0 || header.Size > maxImageSize {
		return "", "", response.ErrValidation("图片大小超出限制")
	}

	f, err := header.Open()
	if err != nil {
		return "", "", err
	}
	defer f.Close()

	seeker, ok := f.(io.ReadSeeker)
	if !ok {
		return "", "", response.ErrValidation("上传流不可回读")
	}

	// MIME 校验只看前 512 字节
	head := make([]byte, 512)
	n, _ := seeker.Read(head)
	contentType := http.DetectContentType(head[:n])
	allowedMime := map[string]bool{
		"image/jpeg": true,
		"image/png":  true,
		"image/webp": true,
	}
	if !allowedMime[contentType] {
		return "", "", response.ErrValidation("不支持的图片类型: " + contentType)
	}
	_, _ = seeker.Seek(0, io.SeekStart)

	// 只解码头部拿格式，不解码全图
	_, format, err := image.DecodeConfig(seeker)
	if err != nil {
		return "", "", response.ErrValidation("图片文件损坏")
	}
	_, _ = seeker.Seek(0, io.SeekStart)

	ext := "." + strings.ToLower(format)
	if ext == ".jpeg" {
		ext = ".jpg"
	}
	key := fmt.Sprintf("product/%s/%d%s",
		time.Now().Format("2006/01/02"), snowflake.GenID(), ext)

	limited := io.LimitReader(seeker, maxImageSize+1)
	if _, err := s.Client.PutObject(ctx, &oss.PutObjectRequest{
		Bucket: oss.Ptr(s.Bucket),
		Key:    oss.Ptr(key),
		Body:   limited,
	}); err != nil {
		return "", "", err
	}

	return key, s.AssetHost + "/" + key, nil
}

const maxModelSize int64 = 100 << 20 // 100MB

// 可打印的模型格式白名单，按扩展名判断（二进制格式没有统一魔数）
var allowedModelExt = map[string]bool{
	".stl":  true,
	".obj":  true,
	".3mf":  true,
	".step": true,
	".stp":  true,
}

func (s *StorageService) UploadModelFile(ctx context.Context, header *multipart.FileHeader) (string, error) {
	if header == nil {
		return "", response.ErrValidation("缺少模型文件")
	}
	if header.Size <= 0 || header.Size > maxModelSize {
		return "", response.ErrValidation("模型文件大小超出限制")
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedModelExt[ext] {
		return "", response.ErrValidation("不支持的模型格式: " + ext)
	}

	f, err := header.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	key := fmt.Sprintf("quote/%s/%d%s",
		time.Now().Format("2006/01/02"), snowflake.GenID(), ext)

	limited := io.LimitReader(f, maxModelSize+1)
	if _, err := s.Client.PutObject(ctx, &oss.PutObjectRequest{
		Bucket: oss.Ptr(s.Bucket),
		Key:    oss.Ptr(key),
		Body:   limited,
	}); err != nil {
		return "", err
	}
	return key, nil
}

func (s *StorageService) SignURL(ctx context.Context, objectKey string, expireSeconds int64) (string, error) {
	result, err := s.Client.Presign(ctx, &oss.GetObjectRequest{
		Bucket: oss.Ptr(s.Bucket),
		Key:    oss.Ptr(objectKey),
	}, oss.PresignExpires(time.Duration(expireSeconds)*time.Second))
	if err != nil {
		return "", err
	}
	return result.URL, nil
}

func (s *StorageService) Delete(ctx context.Context, objectKey string) error {
	_, err := s.Client.DeleteObject(ctx, &oss.DeleteObjectRequest{
		Bucket: oss.Ptr(s.Bucket),
		Key:    oss.Ptr(objectKey),
	})
	return err
}
