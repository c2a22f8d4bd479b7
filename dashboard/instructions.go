package dashboard

// DefaultInstructions is the task definition sent with the competitive
// analysis CSV.
const DefaultInstructions = `{
  "task": "YouTube Channel Competitive Analysis",
  "language": "Vietnamese",
  "input": {
    "file_type": "CSV data from app",
    "file_description": "Each row represents one video from a competitor channel. Columns include Channel name, Video title, Publish date, View count, Likes, Duration."
  },
  "objectives": [
    "1. Clean and normalize data fields.",
    "2. Compute derived metrics: Views per Day (VPD), duration buckets.",
    "3. Identify top-performing videos by absolute views and by Views per Day across all channels.",
    "4. Detect recurring successful title patterns (numbers, exclamations, 'Top X', questions, etc.).",
    "5. Extract high-lift keywords and bigrams from video titles.",
    "6. Determine the most effective posting hours and weekdays.",
    "7. Summarize per-channel performance metrics (median VPD, Shorts share, median duration).",
    "8. Provide actionable insights: what makes high-performing videos stand out and how to replicate success."
  ],
  "expected_outputs": {
    "text_summary": [
      "Top performing channels (by total views, median VPD).",
      "Optimal video duration group.",
      "Best posting time windows.",
      "Title/keyword patterns with the highest lift.",
      "Insights explaining why high-performing videos work.",
      "Strategic recommendations for future content themes and structure."
    ]
  },
  "key_metrics": [
    "views_per_day", "median_views", "median_vpd", "shorts_share", "median_duration_sec", "pattern_lift", "keyword_lift"
  ],
  "analysis_notes": [
    "Use lift ratio (top 20% vs rest) for detecting patterns.",
    "Perform keyword extraction in Vietnamese."
  ],
  "expected_style_of_summary": {
    "tone": "Professional, analytical, data-driven, similar to consulting report, in Vietnamese.",
    "sections": [
      "1. Tóm tắt cho Lãnh đạo (Executive Summary)",
      "2. Tổng quan Hiệu suất các Kênh (Channel Performance Overview)",
      "3. Phân tích Nội dung & Tiêu đề (Content & Title Analysis)",
      "4. Phân tích Thời gian & Thời lượng (Time & Duration Analysis)",
      "5. Các insight chính (Key Insights)",
      "6. Đề xuất Chiến lược (Xây dựng Kênh Mới)"
    ]
  },
  "output_format": {
    "type": "text",
    "parts": [
      "Written summary in Markdown format (in Vietnamese)"
    ]
  }
}`
