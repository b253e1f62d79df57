package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/imtarget05/Health-Tracker-App/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	awssns "github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
	"gorm.io/gorm"
)

// MulticastResult is the per-attempt outcome tally of one fan-out to a
// user's devices. Individual token failures are counted, never raised.
type MulticastResult struct {
	Success int
	Failure int
}

type PushService struct {
	db              *gorm.DB
	sns             *awssns.Client
	fcmPlatformArn  string
	apnsPlatformArn string
	log             *slog.Logger
}

func NewPushService(db *gorm.DB, log *slog.Logger) (*PushService, error) {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "ap-south-1"
	}
	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &PushService{
		db:              db,
		sns:             awssns.NewFromConfig(cfg),
		fcmPlatformArn:  os.Getenv("SNS_FCM_ARN"),
		apnsPlatformArn: os.Getenv("SNS_APNS_ARN"),
		log:             log,
	}, nil
}

type RegisterDeviceReq struct {
	Platform string `json:"platform" binding:"required,oneof=android ios"`
	Token    string `json:"token" binding:"required"`
}

// UserDevices lists every endpoint a user ever registered, live or not.
func (p *PushService) UserDevices(ctx context.Context, userID uint) ([]models.DeviceToken, error) {
	var devices []models.DeviceToken
	err := p.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&devices).Error
	return devices, err
}

func (p *PushService) tokenHash(tok string) string {
	h := sha256.Sum256([]byte(tok))
	return hex.EncodeToString(h[:])
}

func (p *PushService) platformArn(platform string) (string, error) {
	switch strings.ToLower(platform) {
	case "android", "ios":
		if p.fcmPlatformArn == "" {
			return "", errors.New("SNS_FCM_ARN not set")
		}
		return p.fcmPlatformArn, nil
	default:
		return "", errors.New("unknown platform")
	}
}

func (p *PushService) RegisterDevice(userID uint, platform, token string) (*models.DeviceToken, error) {
	appArn, err := p.platformArn(platform)
	if err != nil {
		return nil, err
	}

	out, err := p.sns.CreatePlatformEndpoint(context.TODO(), &awssns.CreatePlatformEndpointInput{
		PlatformApplicationArn: aws.String(appArn),
		Token:                  aws.String(token),
	})
	if err != nil {
		return nil, err
	}

	dev := &models.DeviceToken{
		UserID:      userID,
		Platform:    strings.ToLower(platform),
		TokenHash:   p.tokenHash(token),
		EndpointARN: aws.ToString(out.EndpointArn),
		Active:      true,
		UpdatedAt:   time.Now(),
	}
	var existing models.DeviceToken
	if err := p.db.Where("user_id = ? AND token_hash = ?", userID, dev.TokenHash).First(&existing).Error; err == nil {
		existing.EndpointARN = dev.EndpointARN
		existing.Platform = dev.Platform
		existing.Active = true
		existing.DisabledReason = ""
		existing.UpdatedAt = time.Now()
		_ = p.db.Save(&existing).Error
		return &existing, nil
	}
	_ = p.db.Create(dev).Error
	return dev, nil
}

// SetNotificationsEnabled flips a user's endpoints on or off. Re-enabling
// leaves gateway-disabled endpoints alone; those are dead at the provider
// and only come back through RegisterDevice.
func (p *PushService) SetNotificationsEnabled(ctx context.Context, userID uint, enabled bool) error {
	q := p.db.WithContext(ctx).Model(&models.DeviceToken{}).Where("user_id = ?", userID)
	if enabled {
		return q.Where("disabled_reason <> ?", models.DisabledByGateway).
			Updates(map[string]any{"active": true, "disabled_reason": ""}).Error
	}
	return q.Where("active = ?", true).
		Updates(map[string]any{"active": false, "disabled_reason": models.DisabledByUser}).Error
}

// DeactivateDevice retires one of the user's own endpoints.
func (p *PushService) DeactivateDevice(ctx context.Context, userID, deviceID uint) error {
	res := p.db.WithContext(ctx).Model(&models.DeviceToken{}).
		Where("id = ? AND user_id = ?", deviceID, userID).
		Updates(map[string]any{"active": false, "disabled_reason": models.DisabledByUser})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.New("device not found")
	}
	return nil
}

// ActiveTokens lists a user's live push endpoints.
func (p *PushService) ActiveTokens(ctx context.Context, userID uint) ([]models.DeviceToken, error) {
	var endpoints []models.DeviceToken
	err := p.db.WithContext(ctx).
		Where("user_id = ? AND active = ?", userID, true).
		Find(&endpoints).Error
	return endpoints, err
}

// SendMulticast fans one notification out to the given endpoints and
// reports per-attempt counts. A disabled endpoint is deactivated in place
// so it drops out of future enumerations; no token failure is surfaced as
// an error.
func (p *PushService) SendMulticast(ctx context.Context, endpoints []models.DeviceToken, title, body string, data map[string]string) MulticastResult {
	msg := map[string]any{
		"default": body,
		"GCM": map[string]any{
			"notification": map[string]string{
				"title": title,
				"body":  body,
			},
			"data": data,
		},
	}
	raw, _ := json.Marshal(msg)

	var res MulticastResult
	for _, d := range endpoints {
		_, err := p.sns.Publish(ctx, &awssns.PublishInput{
			MessageStructure: aws.String("json"),
			Message:          aws.String(string(raw)),
			TargetArn:        aws.String(d.EndpointARN),
		})
		if err == nil {
			res.Success++
			continue
		}
		res.Failure++

		var disabled *snstypes.EndpointDisabledException
		if errors.As(err, &disabled) {
			if dbErr := p.db.Model(&models.DeviceToken{}).
				Where("id = ?", d.ID).
				Updates(map[string]any{"active": false, "disabled_reason": models.DisabledByGateway}).Error; dbErr != nil {
				p.log.Warn("could not deactivate disabled endpoint", "deviceId", d.ID, "error", dbErr)
			}
			continue
		}
		p.log.Warn("publish failed", "deviceId", d.ID, "error", err)
	}
	return res
}
