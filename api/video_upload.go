package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strings"
	"sync"

	"lumina/video-api/model"
	"lumina/video-api/service"
	"lumina/video-api/validators"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const multipartLimit = 100 << 20

// VideoUpload stores a new video in the bucket along with a generated
// thumbnail and creates its row in the processing state. Analysis is
// a separate call the client makes afterwards
func (a *API) VideoUpload(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	if a.S3 == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
			"error":     "Storage is not configured",
			"requestID": requestID,
		})
		return
	}

	if !strings.HasPrefix(c.Request.Header.Get("Content-Type"), "multipart/form-data") {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request",
			"requestID": requestID,
		})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to parse multipart form", zap.Error(err))
		return
	}

	files := form.File["file"]
	if len(files) <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "No file provided",
			"requestID": requestID,
		})
		return
	}

	fh := files[0]

	title := c.PostForm("title")
	if title == "" {
		title = strings.TrimSuffix(fh.Filename, path.Ext(fh.Filename))
	}

	code, f, err := validators.VideoValidator(fh)
	if err != nil {
		if code == http.StatusInternalServerError {
			zap.L().Error("Failed to validate file", zap.Error(err))

			// That's to set the error into a general one for the users
			err = errors.New("internal server error")
		}

		c.AbortWithStatusJSON(code, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}
	defer f.Close()

	temp, err := os.CreateTemp("", "upload-*.mp4")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create temporary file", zap.Error(err))
		return
	}
	defer os.Remove(temp.Name())

	_, err = io.Copy(temp, f)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to copy data to temporary file", zap.Error(err))
		return
	}

	f.Seek(0, io.SeekStart)

	videoID := uuid.NewString()
	ext := path.Ext(fh.Filename)
	storagePath := videoID + ext
	thumbPath := "thumb_" + videoID + ".webp"

	errChan := make(chan error, 3)
	uploaded := make([]string, 0, 2)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	var duration float64

	wg.Add(3)

	// Make and upload the thumbnail in the background
	go func() {
		defer wg.Done()

		dest := path.Join(os.TempDir(), thumbPath)
		defer os.Remove(dest)

		err := service.MakeThumbnail(temp, dest)
		if err != nil {
			errChan <- fmt.Errorf("failed to create thumbnail, %w", err)
			return
		}

		file, err := os.Open(dest)
		if err != nil {
			errChan <- fmt.Errorf("failed to open thumbnail, %w", err)
			return
		}
		defer file.Close()

		stat, err := file.Stat()
		if err != nil {
			errChan <- fmt.Errorf("failed to stat thumbnail, %w", err)
			return
		}

		_, err = a.S3.C.PutObject(ctx, &s3.PutObjectInput{
			Bucket:        a.S3.Bucket,
			Key:           &thumbPath,
			Body:          file,
			ContentType:   aws.String("image/webp"),
			ContentLength: aws.Int64(stat.Size()),
		})
		if err != nil {
			errChan <- fmt.Errorf("failed to upload thumbnail to S3, %w", err)
			return
		}

		uploaded = append(uploaded, thumbPath)
		errChan <- nil
	}()

	// Upload the video itself
	go func() {
		defer wg.Done()

		var err error

		if fh.Size > multipartLimit {
			u := manager.NewUploader(a.S3.C, func(u *manager.Uploader) {
				u.Concurrency = 5
				u.PartSize = 5 << 20
			})

			_, err = u.Upload(ctx, &s3.PutObjectInput{
				Bucket:        a.S3.Bucket,
				Key:           aws.String(storagePath),
				Body:          f,
				ContentLength: &fh.Size,
				ContentType:   aws.String(fh.Header.Get("Content-Type")),
			})
		} else {
			_, err = a.S3.C.PutObject(ctx, &s3.PutObjectInput{
				Bucket:        a.S3.Bucket,
				Key:           aws.String(storagePath),
				Body:          f,
				ContentLength: &fh.Size,
				ContentType:   aws.String(fh.Header.Get("Content-Type")),
			})
		}
		if err != nil {
			errChan <- fmt.Errorf("failed to upload file to S3, %w", err)
			return
		}

		uploaded = append(uploaded, storagePath)
		errChan <- nil
	}()

	// Probe the duration. The analyzer overwrites this later, it's
	// only here so the player has something before analysis runs
	go func() {
		defer wg.Done()

		var err error
		duration, err = service.GetDuration(temp.Name())
		if err != nil {
			errChan <- fmt.Errorf("failed to get video duration, %w", err)
			return
		}

		errChan <- nil
	}()

	for i := 0; i < 3; i++ {
		err := <-errChan
		if err != nil {
			cancel()

			zap.L().Error("Background operation failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			for _, key := range uploaded {
				_, err := a.S3.C.DeleteObject(context.Background(), &s3.DeleteObjectInput{
					Bucket: a.S3.Bucket,
					Key:    aws.String(key),
				})
				if err != nil {
					zap.L().Error("Failed to cleanup after failed upload", zap.Error(err))
					continue
				}
				zap.L().Debug("Cleaned up after failed upload", zap.String("key", key))
			}

			return
		}
	}

	// Don't let cancel run prematurely
	wg.Wait()

	video := model.Video{
		ID:            videoID,
		Title:         title,
		Filename:      fh.Filename,
		StoragePath:   storagePath,
		ThumbnailPath: thumbPath,
		Duration:      duration,
		Status:        model.StatusProcessing,
	}

	err = a.DB.Create(&video).Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to save video record to db", zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"video": video,
	})
}
