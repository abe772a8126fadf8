// Copyright (c) AgentGraph Authors.
// Licensed under the MIT License.

/*
Package types 提供 AgentGraph 引擎的全局共享类型定义。

# 概述

types 是引擎最底层的公共包，不依赖任何内部包，为 node、workflow、store、
api 等上层模块提供统一的类型契约。所有跨包共享的结构体、枚举和错误码
均定义于此，以避免循环依赖。

# 核心类型

  - NodeDefinition / EdgeDefinition — 工作流图的节点与边定义
  - NodeKind / AgentRole            — 节点类型与 Agent 角色枚举
  - Workflow                        — 工作流定义（节点 + 边 + 元数据）
  - Outcome                         — 节点执行结果（success / result / error）
  - StepRecord / ExecutionRecord    — 单步与整次执行的审计记录
  - ExecutionStatus                 — 执行状态机枚举
  - Error / ErrorCode               — 结构化错误体系，含 HTTP 状态码映射

# 主要能力

  - 错误工具链：WrapError / IsErrorCode / GetErrorCode
  - 常用错误构造：NewInvalidRequestError / NewNotFoundError / NewInternalError
  - Outcome 构造：Success / Failure 便捷函数
*/
package types
