package config

// Config 配置主体
type Config struct {
	Server             ServerConfig       `mapstructure:"server"`
	DB                 DBConfig           `mapstructure:"database"`
	Redis              RedisConfig        `mapstructure:"redis"`
	Logstash           LogstashConfig     `mapstructure:"logstash"`
	Notify             NotifyConfig       `mapstructure:"notify"`
	Kafka              KafkaConfig        `mapstructure:"kafka"`
	KafkaEventConsumer KafkaEventConsumer `mapstructure:"kafka_event_consumer"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// DBConfig 数据库配置
type DBConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// LogstashConfig 日志远程上报配置
type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}

// NotifyConfig 通知推送相关配置
type NotifyConfig struct {
	// HeartbeatSeconds SSE 心跳间隔（秒），0 使用默认值 30
	HeartbeatSeconds int `mapstructure:"heartbeat_seconds"`
	// ChannelBuffer 每条连接的推送缓冲区大小，0 使用默认值 16
	ChannelBuffer int `mapstructure:"channel_buffer"`
	// PubSubChannel 跨实例推送使用的 Redis 频道，为空则关闭跨实例推送
	PubSubChannel string `mapstructure:"pubsub_channel"`
	// RetentionDays 已读通知保留天数，清理任务使用
	RetentionDays int `mapstructure:"retention_days"`
}

type KafkaConfig struct {
	Brokers  []string       `mapstructure:"brokers"`
	Sasl     SaslConfig     `mapstructure:"sasl"`
	Consumer ConsumerConfig `mapstructure:"consumer"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ConsumerConfig struct {
	SessionTimeout    int `mapstructure:"session_timeout"`
	HeartbeatInterval int `mapstructure:"heartbeat_interval"`
	RebalanceTimeout  int `mapstructure:"rebalance_timeout"`
	MaxProcessingTime int `mapstructure:"max_processing_time"`
}

// KafkaEventConsumer 领域事件消费者配置
type KafkaEventConsumer struct {
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}
