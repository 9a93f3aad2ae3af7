package changelane

import "math"

// HysteresisFilter 带滞回的距离判断
// 功能：判断障碍物距离是否仍然过近
// 参数：obstacleDistance-障碍物距离，safeDistance-安全距离，distanceBuffer-滞回缓冲，
// isObstacleBlocking-上一周期是否阻塞
// 返回：true表示距离过近
// 说明：上一周期阻塞时以safe+buffer为阈值（更难解除），否则以safe-buffer为阈值（更难进入）
func HysteresisFilter(obstacleDistance, safeDistance, distanceBuffer float64, isObstacleBlocking bool) bool {
	if isObstacleBlocking {
		return obstacleDistance < safeDistance+distanceBuffer
	} else {
		return obstacleDistance < safeDistance-distanceBuffer
	}
}

// NormalizeAngle 将角度归一化到(-π, π]
func NormalizeAngle(angle float64) float64 {
	a := math.Mod(angle, 2*math.Pi)
	if a > math.Pi {
		a -= 2 * math.Pi
	} else if a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
