package models

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
	"github.com/mattobell/dealer_backend/config"
	"github.com/mattobell/dealer_backend/utils"
	"gorm.io/gorm"
)

// VehicleImage is a stored photo of a vehicle. Files live in object
// storage; the row only carries URLs.
type VehicleImage struct {
	ID           int       `gorm:"primary_key" json:"id"`
	BusinessId   string    `gorm:"index;not null" json:"business_id"`
	VehicleId    int       `gorm:"index;not null" json:"vehicle_id"`
	ImageUrl     string    `json:"image_url"`
	ThumbnailUrl string    `json:"thumbnail_url"`
	IsPrimary    bool      `gorm:"default:false" json:"is_primary"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type NewVehicleImage struct {
	HasId
	HasIsDeleted
	ImageUrl     string `json:"image_url"`
	ThumbnailUrl string `json:"thumbnail_url"`
	IsPrimary    bool   `json:"is_primary"`
}

type UploadResponse struct {
	ImageUrl     string `json:"image_url"`
	ThumbnailUrl string `json:"thumbnail_url"`
}

// UploadVehicleImage stores the original and a 200px thumbnail and
// returns their access URLs. The row is attached separately so signed
// direct uploads can reuse the same attach path.
func UploadVehicleImage(ctx context.Context, filename string, file io.Reader) (*UploadResponse, error) {
	businessId, _ := utils.GetBusinessIdFromContext(ctx)

	if file == nil {
		return nil, errors.New("nil file provided")
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	imageData := base64.StdEncoding.EncodeToString(data)

	ext := filepath.Ext(filename)
	if ext == "" {
		return nil, errors.New("file has no extension")
	}
	storagePath := "vehicles/"
	uniqueFilename := businessId + " " + utils.GenerateUniqueFilename() + ext
	originalObjectKey := filepath.Join(storagePath, uniqueFilename)
	thumbnailObjectKey := filepath.Join(storagePath, "thumbnails", uniqueFilename)

	if err := utils.SaveImageToGCS(ctx, originalObjectKey, imageData); err != nil {
		return nil, err
	}

	thumbnailData, err := generateThumbnail(data)
	if err != nil {
		return nil, err
	}
	if err := utils.SaveImageToGCS(ctx, thumbnailObjectKey, base64.StdEncoding.EncodeToString(thumbnailData)); err != nil {
		return nil, err
	}

	return &UploadResponse{
		ImageUrl:     utils.BuildObjectAccessURL(originalObjectKey),
		ThumbnailUrl: utils.BuildObjectAccessURL(thumbnailObjectKey),
	}, nil
}

// RemoveUnattachedImage deletes an uploaded object that no row refers
// to. Attached images are deleted through their vehicle.
func RemoveUnattachedImage(ctx context.Context, fullUrl string) (*UploadResponse, error) {
	var count int64
	db := config.GetDB()

	if err := db.Model(&VehicleImage{}).WithContext(ctx).Where("image_url = ?", fullUrl).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("cannot delete image associated with a vehicle")
	}

	objectKey := utils.ExtractObjectKeyFromURL(fullUrl)
	if objectKey == "" {
		return nil, errors.New("invalid url")
	}
	if ok, err := utils.ObjectExistsInGCS(ctx, objectKey); !ok || err != nil {
		return nil, errors.New("object does not exist")
	}

	if err := utils.DeleteImageFromGCS(ctx, objectKey); err != nil {
		return nil, err
	}
	dir, filename := filepath.Split(objectKey)
	thumbnailObjectKey := filepath.Join(dir, "thumbnails", filename)
	if err := utils.DeleteImageFromGCS(ctx, thumbnailObjectKey); err != nil {
		return nil, err
	}

	return &UploadResponse{
		ImageUrl:     utils.BuildObjectAccessURL(objectKey),
		ThumbnailUrl: utils.BuildObjectAccessURL(thumbnailObjectKey),
	}, nil
}

func generateThumbnail(originalData []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(originalData))
	if err != nil {
		return nil, err
	}

	thumbnail := imaging.Resize(img, 200, 0, imaging.Lanczos)

	var thumbnailBuffer bytes.Buffer
	if err := imaging.Encode(&thumbnailBuffer, thumbnail, imaging.JPEG); err != nil {
		return nil, err
	}
	return thumbnailBuffer.Bytes(), nil
}

// AttachVehicleImages replaces the image set of a vehicle with the
// given URLs, verifying the objects actually exist in storage.
func AttachVehicleImages(ctx context.Context, vehicleId int, inputs []*NewVehicleImage) ([]*VehicleImage, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	if err := utils.ValidateResourceId[Vehicle](ctx, businessId, vehicleId); err != nil {
		return nil, utils.ErrorRecordNotFound
	}

	var images []*VehicleImage
	for _, input := range inputs {
		image, err := input.mapInput(businessId, vehicleId)
		if err != nil {
			return nil, err
		}
		images = append(images, image)
	}

	db := config.GetDB()
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("vehicle_id = ?", vehicleId).Delete(&VehicleImage{}).Error; err != nil {
			return err
		}
		if len(images) == 0 {
			return nil
		}
		return tx.Create(&images).Error
	})
	if err != nil {
		return nil, err
	}
	if err := utils.RemoveRedisItem[Vehicle](vehicleId); err != nil {
		return nil, err
	}
	return images, nil
}

func (input NewVehicleImage) mapInput(businessId string, vehicleId int) (*VehicleImage, error) {
	if err := utils.CheckImageExistInGCS(input.ImageUrl); err != nil {
		return nil, err
	}
	if input.ThumbnailUrl != "" {
		if err := utils.CheckImageExistInGCS(input.ThumbnailUrl); err != nil {
			return nil, err
		}
	}
	return &VehicleImage{
		BusinessId:   businessId,
		VehicleId:    vehicleId,
		ImageUrl:     input.ImageUrl,
		ThumbnailUrl: input.ThumbnailUrl,
		IsPrimary:    input.IsPrimary,
	}, nil
}
