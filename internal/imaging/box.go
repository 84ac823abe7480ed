package imaging

// Box Запрошенные размеры. Ноль означает, что измерение не задано.
type Box struct {
	Width  int
	Height int
}

// IsEmpty Ни ширина, ни высота не заданы.
func (b Box) IsEmpty() bool {
	return b.Width <= 0 && b.Height <= 0
}

// TargetSize Вычисляет итоговый размер изображения srcW x srcH для box с сохранением пропорций.
// Изображение только уменьшается: если box не меньше исходника, возвращается исходный размер.
func TargetSize(srcW, srcH int, box Box) (int, int) {
	if srcW <= 0 || srcH <= 0 || box.IsEmpty() {
		return srcW, srcH
	}

	var width, height int

	switch {
	case box.Height <= 0:
		width = min(srcW, box.Width)
		height = srcH * width / srcW
	case box.Width <= 0:
		height = min(srcH, box.Height)
		width = srcW * height / srcH
	default:
		// вписываем в прямоугольник box
		if box.Width >= srcW && box.Height >= srcH {
			return srcW, srcH
		}

		// box не больше исходника, поэтому произведения ниже не переполняются
		boxW, boxH := min(box.Width, srcW), min(box.Height, srcH)

		if boxW*srcH <= boxH*srcW {
			width = boxW
			height = srcH * width / srcW
		} else {
			height = boxH
			width = srcW * height / srcH
		}
	}

	return max(width, 1), max(height, 1)
}
