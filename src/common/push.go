package common

import (
	"context"
	"log"
	"ngocms/src/config"
	"ngocms/src/db"
	"ngocms/src/lib"
	"ngocms/src/models"
	"ngocms/src/types"

	"firebase.google.com/go/v4/messaging"
	"gorm.io/gorm"
)

// RegisterDevice upserts a device token and subscribes it to the requested
// topics. Topic subscription failures are logged, not fatal: the device row
// is the source of truth for the broadcast path.
func RegisterDevice(token string, topics []string) error {
	db := db.GetDb()
	if err := db.Transaction(func(tx *gorm.DB) error {
		device := models.PushDevice{Token: token}
		if err := tx.
			Where(&models.PushDevice{Token: token}).
			FirstOrInit(&device).
			Error; err != nil {
			return err
		}
		device.Status = "active"
		topicsMap := types.JSONB{}
		for _, t := range topics {
			topicsMap[t] = true
		}
		device.Topics = topicsMap
		if err := tx.Save(&device).Error; err != nil {
			return err
		}
		return nil
	}); err != nil {
		log.Printf("Error registering push device: %s\n", err.Error())
		return err
	}

	go func() {
		fcm, err := lib.GetFirebaseMessaging()
		if err != nil {
			log.Printf("Could not retrieve FCM instance: %v\n", err)
			return
		}
		for _, topic := range topics {
			if _, err := fcm.SubscribeToTopic(context.Background(), []string{token}, topic); err != nil {
				log.Printf("[FCM] error subscribing to topic [%s]: %v\n", topic, err)
			}
		}
	}()
	return nil
}

// BroadcastPush delivers a notification to a topic, or multicasts to every
// registered device in FCM-capped batches. Per-device failures are counted,
// never escalated.
func BroadcastPush(title, body, topic string) (*types.FanoutResult, error) {
	fcm, err := lib.GetFirebaseMessaging()
	if err != nil {
		log.Printf("Could not retrieve FCM instance: %v\n", err)
		return nil, err
	}

	notification := &messaging.Notification{Title: title, Body: body}
	if topic != "" {
		if _, err := fcm.Send(context.Background(), &messaging.Message{
			Notification: notification,
			Topic:        topic,
		}); err != nil {
			log.Printf("[FCM] error sending to topic [%s]: %v\n", topic, err)
			return &types.FanoutResult{SentTo: 0, Failed: 1, Total: 1}, nil
		}
		return &types.FanoutResult{SentTo: 1, Failed: 0, Total: 1}, nil
	}

	var devices []models.PushDevice
	db := db.GetDb()
	if err := db.
		Model(&models.PushDevice{}).
		Select("token").
		Where("status = ?", "active").
		Find(&devices).
		Error; err != nil {
		log.Printf("Error retrieving push devices: %s\n", err.Error())
		return nil, err
	}
	tokens := make([]string, 0, len(devices))
	for _, d := range devices {
		tokens = append(tokens, d.Token)
	}

	result := &types.FanoutResult{Total: len(tokens)}
	for start := 0; start < len(tokens); start += config.PUSH_BATCH_SIZE {
		end := min(start+config.PUSH_BATCH_SIZE, len(tokens))
		res, err := fcm.SendEachForMulticast(context.Background(), &messaging.MulticastMessage{
			Notification: notification,
			Tokens:       tokens[start:end],
		})
		if err != nil {
			log.Printf("[FCM] multicast error: %v\n", err)
			result.Failed += end - start
			continue
		}
		result.SentTo += res.SuccessCount
		result.Failed += res.FailureCount
	}
	return result, nil
}
