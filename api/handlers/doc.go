// Copyright (c) AgentGraph Authors.
// Licensed under the MIT License.

/*
Package handlers 提供 AgentGraph HTTP API 的请求处理器实现。

# 概述

handlers 包实现了 AgentGraph 所有 HTTP 端点的请求处理逻辑，
包括工作流管理、工作流执行、执行历史查询、模型清单与健康检查，
以及统一的响应/错误处理。所有 Handler 均遵循标准 net/http 接口。

# 核心类型

  - WorkflowHandler   — 工作流定义 CRUD（创建、列表、查询、删除）
  - ExecutionHandler  — 工作流执行与执行历史查询
  - ModelsHandler     — 模型清单，后端不可达时退回静态清单
  - HealthHandler     — 服务横幅与健康检查（/api/, /api/health, /api/ready）
  - Response          — 统一错误响应结构（success + error + timestamp）
  - ErrorInfo         — 结构化错误信息，含 code、message、retryable 标记
  - ResponseWriter    — 包装 http.ResponseWriter 以捕获状态码
  - HealthCheck       — 可插拔健康检查接口（存储、缓存等）

# 主要能力

  - 响应辅助：WriteJSON / WriteError / WriteErrorMessage
  - 请求验证：DecodeJSONBody（严格模式）、ValidateContentType
  - ErrorCode → HTTP 状态码自动映射（4xx/5xx）
  - 执行分派：有边的工作流走图执行器，无边的走固定 agent 管线
  - 读穿缓存：工作流定义按需写入/失效 Redis 缓存
  - 可扩展健康检查：RegisterCheck 注册自定义 HealthCheck 实现
*/
package handlers
