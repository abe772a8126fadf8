// Package config 提供 AgentGraph 的配置管理功能。
//
// 支持从 YAML 文件与环境变量加载配置，
// 优先级为默认值 → 文件 → 环境变量。
package config
