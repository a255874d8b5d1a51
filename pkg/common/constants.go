package common

const (
	RedisStreamStatementPrefetch = "fin.statement.prefetch"

	RedisStreamGroup    = "fin-group"
	RedisStreamConsumer = "fin-consumer"

	RedisKeyCompanyInfo = "fin:company:%s"
)
