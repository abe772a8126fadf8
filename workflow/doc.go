// Copyright (c) AgentGraph Authors.
// Licensed under the MIT License.

/*
Package workflow 提供工作流编排与执行引擎。

# 概述

workflow 包实现 AgentGraph 的两种执行模式：基于边列表的图执行
（Kahn 拓扑排序 + 顺序调度）与固定三阶段 Agent 流水线
（planner → executor → reviewer）。两种模式共享同一份执行记录模型。

# 核心接口与类型

  - BuildExecutionOrder — Kahn 拓扑排序（FIFO 发现顺序、可选起点固定）
  - Executor            — 图执行器（顺序调度、状态浅合并、fail-fast）
  - Pipeline            — 固定阶段 Agent 流水线（缺省角色自动降级）
  - Result              — 单次运行的状态、步骤审计与最终输出

# 主要能力

  - 拓扑顺序：FIFO 平局策略，环上节点静默剔除（与既有行为保持一致）
  - 状态传递：成功节点的映射结果浅合并进共享状态，后写覆盖先写
  - 错误策略：节点失败即终止（fail-fast），顶层 panic 统一回收
  - 审计记录：按执行顺序追加 StepRecord，终态一次性定格
*/
package workflow
