/*
 * @module service/models/jsonb
 * @description JSONB字段类型定义，支持PostgreSQL的JSONB数据类型与Go结构的序列化转换
 * @architecture 数据访问层 - 自定义数据库类型
 * @documentReference ai_docs/recommendation_engine_req.md
 * @stateFlow 无状态类型转换
 * @rules 实现sql.Scanner和driver.Valuer接口，空值序列化为SQL NULL
 * @dependencies database/sql/driver, encoding/json
 * @refs service/models/assessment_report.go
 */
package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// JSONB 通用 JSON 列类型
type JSONB map[string]interface{}

// JSONBStringArray 字符串数组 JSONB 列类型
type JSONBStringArray []string

func scanJSONBBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, errors.New("类型断言失败: 不是 []byte 或 string")
	}
}

// 实现 Scanner 接口
func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, err := scanJSONBBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, j)
}

// 实现 Valuer 接口
func (j JSONB) Value() (driver.Value, error) {
	return json.Marshal(j)
}

// JSONBStringArray 的 Scanner 接口实现
func (j *JSONBStringArray) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, err := scanJSONBBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, j)
}

// JSONBStringArray 的 Valuer 接口实现
func (j JSONBStringArray) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}
