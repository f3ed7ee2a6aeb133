package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sc "github.com/bmgraphics/fleetops/internal/server/config"
	"github.com/bmgraphics/fleetops/internal/server/models"
	"github.com/bmgraphics/fleetops/internal/server/repositories/repomanager"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// PhotoService indexes vehicle photos. Image bytes never pass through the
// server: clients upload straight to object storage with presigned PUT URLs
// and fetch back with presigned GETs.
type PhotoService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
}

func NewPhotoService(db *sql.DB, repomanager repomanager.RepositoryManager, config *sc.Config) *PhotoService {
	return &PhotoService{
		db:          db,
		repomanager: repomanager,
		config:      config,
	}
}

// GetRandomStorageKey produces a date-partitioned object key for a new photo.
func GetRandomStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("photos/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *PhotoService) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,     // MINIO_ROOT_USER
			s.config.S3RootPassword, // MINIO_ROOT_PASSWORD
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
	})

	return newS3PresignClient(client), nil
}

// BeginUpload registers a photo for the vehicle and returns a presigned PUT
// URL the client uploads the bytes to.
func (s *PhotoService) BeginUpload(ctx context.Context, vehicleID, photoType, userID string) (*models.VehiclePhoto, string, error) {
	// the row must point at a real vehicle
	if _, err := s.repomanager.Vehicles(s.db).GetByID(ctx, vehicleID); err != nil {
		return nil, "", err
	}

	presignClient, err := s.getPresignClient()
	if err != nil {
		return nil, "", err
	}

	bucket := s.config.S3Bucket
	key := GetRandomStorageKey()

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return nil, "", err
	}

	photo := &models.VehiclePhoto{
		ID:          uuid.NewString(),
		VehicleID:   vehicleID,
		StoragePath: key,
		PhotoType:   photoType,
		TakenBy:     userID,
	}
	photo, err = s.repomanager.Photos(s.db).Create(ctx, photo)
	if err != nil {
		return nil, "", fmt.Errorf("error creating photo: %v", err)
	}

	return photo, req.URL, nil
}

// ListByVehicle returns the vehicle's photos, each with a presigned GET URL.
func (s *PhotoService) ListByVehicle(ctx context.Context, vehicleID string) ([]*models.VehiclePhoto, []string, error) {
	photos, err := s.repomanager.Photos(s.db).ListByVehicle(ctx, vehicleID)
	if err != nil {
		return nil, nil, err
	}
	if len(photos) == 0 {
		return nil, nil, nil
	}

	presignClient, err := s.getPresignClient()
	if err != nil {
		return nil, nil, err
	}

	bucket := s.config.S3Bucket
	urls := make([]string, 0, len(photos))
	for _, p := range photos {
		key := p.StoragePath
		req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
			Bucket: &bucket,
			Key:    &key,
		}, s3.WithPresignExpires(15*time.Minute))
		if err != nil {
			return nil, nil, err
		}
		urls = append(urls, req.URL)
	}
	return photos, urls, nil
}
