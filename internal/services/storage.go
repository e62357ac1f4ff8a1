package services

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// Storage puts venue listing photos on S3 when AWS credentials are
// configured, falling back to local disk for development.
type Storage struct {
	s3Client  *s3.S3
	uploader  *s3manager.Uploader
	useS3     bool
	bucket    string
	region    string
	baseURL   string
	uploadDir string
}

// NewStorage initializes either S3 or local storage based on configuration
func NewStorage() (*Storage, error) {
	awsRegion := os.Getenv("AWS_REGION")
	awsAccessKey := os.Getenv("AWS_ACCESS_KEY_ID")
	awsSecretKey := os.Getenv("AWS_SECRET_ACCESS_KEY")

	if awsRegion != "" && awsAccessKey != "" && awsSecretKey != "" {
		sess, err := session.NewSession(&aws.Config{
			Region: aws.String(awsRegion),
			Credentials: credentials.NewStaticCredentials(
				awsAccessKey,
				awsSecretKey,
				"",
			),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create AWS session: %v", err)
		}

		st := &Storage{
			s3Client: s3.New(sess),
			uploader: s3manager.NewUploader(sess),
			useS3:    true,
			bucket:   os.Getenv("AWS_S3_BUCKET"),
			region:   awsRegion,
		}
		if st.bucket == "" {
			return nil, fmt.Errorf("S3 bucket name not configured")
		}
		fmt.Println("AWS S3 storage initialized successfully")
		return st, nil
	}

	// Fallback to local storage
	st := &Storage{
		useS3:     false,
		uploadDir: "/app/uploads",
		baseURL:   os.Getenv("BASE_URL"),
	}
	if st.baseURL == "" {
		st.baseURL = "http://localhost:8080"
	}

	if err := os.MkdirAll(filepath.Join(st.uploadDir, "venues"), 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %v", err)
	}

	fmt.Println("AWS S3 not configured. Using local file storage (not recommended for production)")
	return st, nil
}

// UploadImage stores a photo and returns its public URL (S3) or relative
// path (local).
func (st *Storage) UploadImage(file *multipart.FileHeader, folder string) (string, error) {
	if st.useS3 {
		return st.uploadToS3(file, folder)
	}
	return st.uploadLocally(file, folder)
}

func (st *Storage) uploadToS3(file *multipart.FileHeader, folder string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %v", err)
	}
	defer src.Close()

	buffer := bytes.NewBuffer(nil)
	if _, err := io.Copy(buffer, src); err != nil {
		return "", fmt.Errorf("failed to read file: %v", err)
	}

	contentType := http.DetectContentType(buffer.Bytes())

	fileExt := filepath.Ext(file.Filename)
	fileName := fmt.Sprintf("%s/%d%s", folder, time.Now().UnixNano(), fileExt)

	_, err = st.uploader.Upload(&s3manager.UploadInput{
		Bucket:      aws.String(st.bucket),
		Key:         aws.String(fileName),
		Body:        bytes.NewReader(buffer.Bytes()),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %v", err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", st.bucket, st.region, fileName), nil
}

func (st *Storage) uploadLocally(file *multipart.FileHeader, folder string) (string, error) {
	folderPath := filepath.Join(st.uploadDir, folder)
	if err := os.MkdirAll(folderPath, 0755); err != nil {
		return "", fmt.Errorf("failed to create folder directory: %v", err)
	}

	fileExt := filepath.Ext(file.Filename)
	fileName := fmt.Sprintf("%d%s", time.Now().UnixNano(), fileExt)
	filePath := filepath.Join(folderPath, fileName)

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %v", err)
	}
	defer src.Close()

	dst, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %v", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to save file: %v", err)
	}

	return filepath.Join(folder, fileName), nil
}

// ImageURL returns the full URL for a stored photo. S3 paths are already
// complete; local paths get the base URL prepended.
func (st *Storage) ImageURL(imagePath string) string {
	if st.useS3 {
		return imagePath
	}
	return fmt.Sprintf("%s/uploads/%s", st.baseURL, filepath.ToSlash(imagePath))
}

// DeleteImage removes a stored photo.
func (st *Storage) DeleteImage(imagePath string) error {
	if st.useS3 {
		key := strings.TrimPrefix(imagePath,
			fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", st.bucket, st.region))
		_, err := st.s3Client.DeleteObject(&s3.DeleteObjectInput{
			Bucket: aws.String(st.bucket),
			Key:    aws.String(key),
		})
		return err
	}
	return os.Remove(filepath.Join(st.uploadDir, imagePath))
}
