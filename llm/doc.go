// Copyright (c) AgentGraph Authors.
// Licensed under the MIT License.

/*
Package llm 提供语言模型后端的一次性文本补全客户端。

# 概述

llm 封装对 Ollama 风格补全服务的访问：单次请求 {model, prompt} 返回
完整响应文本。引擎将后端视为不透明的异步调用，失败由上层 Agent 节点
以软失败策略吸收。

# 核心接口与类型

  - Backend          — 后端抽象接口（Generate + ListModels）
  - Client           — HTTP 实现（/api/generate、/api/tags）
  - GenerateRequest  — 补全请求（Model + Prompt）
  - GenerateResponse — 补全响应（Response 文本）
  - ModelInfo        — 可用模型信息

# 主要能力

  - 请求级 context 取消与超时（默认 60s）
  - 结构化日志（zap）
*/
package llm
