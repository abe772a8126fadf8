// Copyright (c) AgentGraph Authors.
// Licensed under the MIT License.

/*
Package node 提供工作流节点的统一执行契约与全部节点实现。

# 概述

node 将异构工作单元（AI Agent 步骤与手工自动化步骤）收敛到单一契约：
Execute(ctx, state) → Outcome。执行器按拓扑顺序统一调度，节点自身
不直接修改共享状态，只返回增量结果由执行器合并。

# 节点类型

  - AgentNode       — planner / executor / reviewer 三种角色的 LLM 步骤
  - HTTPRequestNode — 单次阻塞 HTTP 调用，支持 {{key}} 变量替换
  - TransformNode   — map / filter / reduce / custom 数据变换
  - ConditionalNode — 六种比较器的条件判定，结果仅标注分支
  - WebhookNode     — 回显记录节点，不发起外呼
  - DelayNode       — 定时挂起后原样透传

# 主要能力

  - Registry：按 NodeDefinition 批量实例化并按 id 注册
  - Agent 软失败：后端错误折叠进成功结果文本，不中断运行
  - 配置取值辅助：字符串 / 数值 / 映射的宽松读取
*/
package node
