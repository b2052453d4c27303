package backend

import (
	"log/slog"

	"tindahan/internal/amqp"
	"tindahan/internal/config"
	"tindahan/internal/events"
	"tindahan/internal/kafka"
)

// PublisherConfig selects the optional event brokers.
type PublisherConfig struct {
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	KafkaBrokers []string
	KafkaTopic   string
}

func PublisherConfigFromApp(appConfig *config.Config) PublisherConfig {
	return PublisherConfig{
		AMQPURL:      appConfig.AMQPURL,
		AMQPExchange: appConfig.AMQPExchange,
		AMQPQueue:    appConfig.AMQPQueue,
		KafkaBrokers: appConfig.KafkaBrokers,
		KafkaTopic:   appConfig.KafkaTopic,
	}
}

// CreatePublishers builds every configured broker. A broker that cannot be
// reached is left out with a warning: orders are still taken without it.
func CreatePublishers(config PublisherConfig, logger *slog.Logger) *events.Multi {
	if logger == nil {
		logger = slog.Default()
	}

	var pubs []events.Publisher

	if config.AMQPURL != "" {
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without it", "error", err)
		} else {
			logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
			pubs = append(pubs, client)
		}
	}

	if len(config.KafkaBrokers) > 0 {
		pubs = append(pubs, kafka.NewPublisher(config.KafkaBrokers, config.KafkaTopic))
		logger.Info("Initialized Kafka publisher",
			"brokers", config.KafkaBrokers,
			"topic", config.KafkaTopic)
	}

	return events.NewMulti(pubs...)
}
