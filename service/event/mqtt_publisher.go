/*
 * @module service/event/mqtt_publisher
 * @description MQTT变更影响发布器，将影响分析结果以JSON消息推送到模块主题
 * @architecture 事件驱动架构 - 发布层
 * @documentReference ai_docs/recommendation_engine_req.md
 * @stateFlow 连接broker -> 序列化影响结果 -> 按模块主题发布
 * @rules 主题格式 recommendation/impacts/{module}；QoS 1，发布等待broker确认
 * @dependencies github.com/eclipse/paho.mqtt.golang
 * @refs publisher.go
 */

package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"recommendation-service/service/models"
)

const mqttPublishTimeout = 5 * time.Second

// MQTTImpactPublisher 基于MQTT的影响发布器
type MQTTImpactPublisher struct {
	client mqtt.Client
	broker string
}

// NewMQTTImpactPublisher 创建MQTT影响发布器，连接参数从环境变量读取
func NewMQTTImpactPublisher() (*MQTTImpactPublisher, error) {
	broker := getEnvWithDefault("MQTT_BROKER", "tcp://localhost:1883")
	clientID := getEnvWithDefault("MQTT_CLIENT_ID", "recommendation-service")

	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	if username := getEnvWithDefault("MQTT_USERNAME", ""); username != "" {
		opts.SetUsername(username)
		opts.SetPassword(getEnvWithDefault("MQTT_PASSWORD", ""))
	}
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		slog.Warn("MQTT连接断开", "broker", broker, "error", err)
	})

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("MQTT连接失败: %v", token.Error())
	}
	slog.Info("MQTT影响发布器已连接", "broker", broker)

	return &MQTTImpactPublisher{client: client, broker: broker}, nil
}

// PublishImpact 将影响结果发布到来源模块对应的主题
func (p *MQTTImpactPublisher) PublishImpact(ctx context.Context, impact *models.ChangeImpact) error {
	payload, err := json.Marshal(impact)
	if err != nil {
		return fmt.Errorf("序列化影响结果失败: %w", err)
	}

	topic := "recommendation/impacts/" + impact.SourceModule
	token := p.client.Publish(topic, 1, false, payload)
	if !token.WaitTimeout(mqttPublishTimeout) {
		return fmt.Errorf("MQTT发布超时: topic=%s", topic)
	}
	if token.Error() != nil {
		return fmt.Errorf("MQTT发布失败: %v", token.Error())
	}

	slog.Debug("变更影响已发布", "topic", topic, "entity_id", impact.EntityID)
	return nil
}

// Close 断开MQTT连接
func (p *MQTTImpactPublisher) Close() error {
	p.client.Disconnect(250)
	slog.Info("MQTT影响发布器已断开", "broker", p.broker)
	return nil
}
